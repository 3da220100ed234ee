package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/storage"
)

type ImageHandler struct {
	db    *storage.PostgresStore
	minio *storage.MinIOStore
}

func NewImageHandler(db *storage.PostgresStore, minio *storage.MinIOStore) *ImageHandler {
	return &ImageHandler{db: db, minio: minio}
}

// Upload stores an evidence image for a candidate. The object key embeds
// the correlation id so the blob remains addressable after the candidate
// is promoted.
func (h *ImageHandler) Upload(c *gin.Context) {
	correlationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("plates/%s/%s_%s", correlationID, uuid.New(), fileHeader.Filename)
	if err := h.minio.PutObject(c.Request.Context(), key, data, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	im := &models.PlateImage{
		CorrelationID: correlationID,
		ObjectKey:     key,
	}
	if actor, ok := actorFrom(c); ok {
		im.UploadedBy = &actor.ID
	}
	if err := h.db.CreateImage(c.Request.Context(), im); err != nil {
		// Don't leave an orphan blob behind the failed row.
		_ = h.minio.DeleteObject(c.Request.Context(), key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             im.ID,
		"correlation_id": im.CorrelationID,
		"url":            fmt.Sprintf("/v1/images/%s", im.ID),
	})
}

// Get streams the image bytes.
func (h *ImageHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	im, err := h.db.GetImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if im == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	data, err := h.minio.GetObject(c.Request.Context(), im.ObjectKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

// Delete removes the row and the blob.
func (h *ImageHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image id"})
		return
	}

	im, err := h.db.GetImage(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if im == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	if err := h.db.DeleteImage(c.Request.Context(), id); err != nil && !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	_ = h.minio.DeleteObject(c.Request.Context(), im.ObjectKey)

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
