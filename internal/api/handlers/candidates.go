package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/search"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/internal/verify"
	"github.com/your-org/lpr/pkg/dto"
)

// CandidateStore is the slice of the store the candidate read paths need.
type CandidateStore interface {
	ListCandidates(ctx context.Context, limit int) ([]models.PlateCandidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*models.PlateCandidate, error)
}

type CandidateHandler struct {
	db        CandidateStore
	machine   *verify.Machine
	formatter *search.Formatter
}

func NewCandidateHandler(db CandidateStore, machine *verify.Machine, formatter *search.Formatter) *CandidateHandler {
	return &CandidateHandler{db: db, machine: machine, formatter: formatter}
}

// List returns pending candidates, newest first. Store failures degrade to
// an empty listing.
func (h *CandidateHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	candidates, err := h.db.ListCandidates(c.Request.Context(), limit)
	if err != nil {
		slog.Error("list candidates failed", "error", err)
		candidates = nil
	}

	resp := dto.CandidateListResponse{Candidates: make([]dto.CandidateResponse, 0, len(candidates))}
	for _, cand := range candidates {
		resp.Candidates = append(resp.Candidates, h.toResponse(&cand))
	}
	resp.Total = len(resp.Candidates)
	c.JSON(http.StatusOK, resp)
}

func (h *CandidateHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	cand, err := h.db.GetCandidate(c.Request.Context(), id)
	if err != nil {
		slog.Error("get candidate failed", "error", err, "id", id)
		cand = nil
	}
	if cand == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(cand))
}

// Edit applies a partial correction to a candidate before verification.
func (h *CandidateHandler) Edit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	var patch models.CandidatePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	cand, err := h.machine.EditCandidate(c.Request.Context(), id, patch, actor)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
			return
		}
		if errors.Is(err, verify.ErrCharCountMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(cand))
}

// Verify promotes a candidate to a verified plate.
func (h *CandidateHandler) Verify(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	plateID, err := h.machine.Verify(c.Request.Context(), id, actor)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{Status: "verified", PlateID: plateID})
}

// Reject deletes a candidate without creating a plate.
func (h *CandidateHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid candidate id"})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.machine.Reject(c.Request.Context(), id, actor); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "candidate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (h *CandidateHandler) toResponse(cand *models.PlateCandidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		ID:                 cand.ID,
		Plate:              cand.Plate,
		Province:           cand.Province,
		CameraID:           cand.CameraID,
		CameraName:         cand.CameraName,
		CharConfidences:    cand.CharConfidences,
		ProvinceConfidence: cand.ProvinceConfidence,
		CreatedAt:          h.formatter.Format(cand.CreatedAt),
	}
}
