package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/pkg/dto"
)

type CameraHandler struct {
	db    *storage.PostgresStore
	cache *cache.Partitions
	audit *audit.Logger
}

func NewCameraHandler(db *storage.PostgresStore, parts *cache.Partitions, auditLog *audit.Logger) *CameraHandler {
	return &CameraHandler{db: db, cache: parts, audit: auditLog}
}

func (h *CameraHandler) List(c *gin.Context) {
	if v, ok := h.cache.Cameras(); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	cameras, err := h.db.ListCameras(c.Request.Context())
	if err != nil {
		slog.Error("list cameras failed", "error", err)
		cameras = nil
	}

	resp := gin.H{"cameras": cameras, "total": len(cameras)}
	if err == nil {
		h.cache.SetCameras(resp)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CameraHandler) Create(c *gin.Context) {
	var req dto.AddCameraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	camera := &models.Camera{
		CameraID: req.CameraID,
		Name:     req.Name,
		Location: req.Location,
	}
	if err := h.db.CreateCamera(c.Request.Context(), camera); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateCameras()
	if actor, ok := actorFrom(c); ok {
		h.audit.Log(c.Request.Context(), &actor.ID, "add_camera",
			fmt.Sprintf("added camera %s (%s)", camera.Name, camera.CameraID),
			actor.IP, actor.UserAgent)
	}

	c.JSON(http.StatusCreated, camera)
}
