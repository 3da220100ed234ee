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
	"github.com/your-org/lpr/internal/storage"
	"github.com/your-org/lpr/pkg/dto"
)

type WatchlistHandler struct {
	db    *storage.PostgresStore
	cache *cache.Partitions
	audit *audit.Logger
}

func NewWatchlistHandler(db *storage.PostgresStore, parts *cache.Partitions, auditLog *audit.Logger) *WatchlistHandler {
	return &WatchlistHandler{db: db, cache: parts, audit: auditLog}
}

func (h *WatchlistHandler) List(c *gin.Context) {
	if v, ok := h.cache.Watchlist(); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	entries, err := h.db.ListWatchlist(c.Request.Context())
	if err != nil {
		slog.Error("list watchlist failed", "error", err)
		entries = nil
	}

	resp := gin.H{"watchlist": entries, "total": len(entries)}
	if err == nil {
		h.cache.SetWatchlist(resp)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *WatchlistHandler) Add(c *gin.Context) {
	var req dto.AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.WatchlistEntry{
		Plate: req.Plate,
		Note:  req.Note,
	}
	actor, ok := actorFrom(c)
	if ok {
		entry.AddedBy = &actor.ID
	}

	if err := h.db.AddWatchlistEntry(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWatchlist()
	if ok {
		h.audit.Log(c.Request.Context(), &actor.ID, "add_watchlist",
			fmt.Sprintf("added %s to watchlist", entry.Plate),
			actor.IP, actor.UserAgent)
	}

	c.JSON(http.StatusCreated, entry)
}

func (h *WatchlistHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid watchlist id"})
		return
	}

	if err := h.db.DeleteWatchlistEntry(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "watchlist entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.cache.InvalidateWatchlist()
	if actor, ok := actorFrom(c); ok {
		h.audit.Log(c.Request.Context(), &actor.ID, "delete_watchlist",
			fmt.Sprintf("removed watchlist entry %s", id),
			actor.IP, actor.UserAgent)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *WatchlistHandler) ListAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	key := strconv.Itoa(limit)
	if v, ok := h.cache.Alerts(key); ok {
		c.JSON(http.StatusOK, v)
		return
	}

	alerts, err := h.db.ListAlerts(c.Request.Context(), limit)
	if err != nil {
		slog.Error("list alerts failed", "error", err)
		alerts = nil
	}

	resp := gin.H{"alerts": alerts, "total": len(alerts)}
	if err == nil {
		h.cache.SetAlerts(key, resp)
	}
	c.JSON(http.StatusOK, resp)
}
