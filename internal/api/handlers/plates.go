package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/lpr/internal/audit"
	"github.com/your-org/lpr/internal/cache"
	"github.com/your-org/lpr/internal/models"
	"github.com/your-org/lpr/internal/search"
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/internal/verify"
	"github.com/your-org/lpr/pkg/dto"
)

type PlateHandler struct {
	db        *storage.PostgresStore
	cache     *cache.Partitions
	engine    *search.Engine
	machine   *verify.Machine
	formatter *search.Formatter
	audit     *audit.Logger
}

func NewPlateHandler(db *storage.PostgresStore, parts *cache.Partitions, engine *search.Engine, machine *verify.Machine, formatter *search.Formatter, auditLog *audit.Logger) *PlateHandler {
	return &PlateHandler{db: db, cache: parts, engine: engine, machine: machine, formatter: formatter, audit: auditLog}
}

// List returns recent plates, newest first. Store failures degrade to an
// empty listing.
func (h *PlateHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))
	key := strconv.Itoa(limit)
	if v, ok := h.cache.Listing(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	plates, err := h.db.ListPlates(c.Request.Context(), limit)
	if err != nil {
		slog.Error("list plates failed", "error", err)
		plates = nil
	}

	resp := dto.PlateListResponse{Plates: make([]dto.PlateResponse, 0, len(plates))}
	for _, p := range plates {
		resp.Plates = append(resp.Plates, h.toResponse(&p))
	}
	resp.Total = len(resp.Plates)

	if err == nil {
		h.cache.SetListing(key, resp)
	}
	c.JSON(http.StatusOK, resp)
}

// GetByNumber returns the most recent record for a plate number.
func (h *PlateHandler) GetByNumber(c *gin.Context) {
	number := c.Param("plate")

	if v, ok := h.cache.Plate(number); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	p, err := h.db.GetPlateByNumber(c.Request.Context(), number)
	if err != nil {
		slog.Error("get plate failed", "plate", number, "error", err)
		c.JSON(http.StatusOK, gin.H{"plate": nil})
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plate not found"})
		return
	}

	resp := h.toResponse(p)
	h.cache.SetPlate(number, resp)
	c.JSON(http.StatusOK, resp)
}

// Add inserts a plate record directly, bypassing verification. The row
// is stored unverified.
func (h *PlateHandler) Add(c *gin.Context) {
	var req dto.AddPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, _ := actorFrom(c)
	p := &models.Plate{
		Plate:      req.Plate,
		Province:   req.Province,
		CameraID:   req.CameraID,
		CameraName: req.CameraName,
		Verified:   false,
	}
	if actor.ID != uuid.Nil {
		p.UserID = &actor.ID
	}

	if err := h.db.CreatePlate(c.Request.Context(), p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidatePlates()
	h.audit.Log(c.Request.Context(), p.UserID, "add_plate",
		fmt.Sprintf("added plate %s (%s)", p.Plate, p.ID),
		actor.IP, actor.UserAgent)

	c.JSON(http.StatusCreated, h.toResponse(p))
}

// Search runs the composed filter query.
func (h *PlateHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates, err := search.ParseDateRange(
		req.StartDate, req.EndDate,
		req.StartMonth, req.EndMonth,
		req.StartYear, req.EndYear,
		h.formatter.Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hours, err := search.ParseHourWindow(req.StartHour, req.EndHour)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.engine.Search(c.Request.Context(), search.Params{
		Term:       req.SearchTerm,
		Province:   req.Province,
		CameraID:   req.CameraID,
		CameraName: req.CameraName,
		Dates:      dates,
		Hours:      hours,
		Limit:      req.Limit,
	})

	c.JSON(http.StatusOK, dto.SearchResponse{Results: results, Total: len(results)})
}

// Edit corrects the text of a verified plate, recording an edit row.
// The path parameter is the plate row id, not the plate number.
func (h *PlateHandler) Edit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("plate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plate id"})
		return
	}

	var req dto.EditPlateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	err = h.machine.EditVerifiedPlate(c.Request.Context(), id, req.Plate, req.Reason, actor)
	switch {
	case errors.Is(err, verify.ErrNoChanges):
		c.JSON(http.StatusOK, gin.H{"status": "no changes"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "plate not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (h *PlateHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("plate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plate id"})
		return
	}

	if err := h.db.DeletePlate(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plate not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidatePlates()
	if actor, ok := actorFrom(c); ok {
		h.audit.Log(c.Request.Context(), &actor.ID, "delete_plate",
			fmt.Sprintf("deleted plate %s", id),
			actor.IP, actor.UserAgent)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *PlateHandler) toResponse(p *models.Plate) dto.PlateResponse {
	return dto.PlateResponse{
		ID:         p.ID,
		Plate:      p.Plate,
		Province:   p.Province,
		CameraID:   p.CameraID,
		CameraName: p.CameraName,
		Timestamp:  h.formatter.Format(p.Timestamp),
		Verified:   p.Verified,
	}
}
