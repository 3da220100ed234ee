package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lpr/internal/storage"
)

type ActivityHandler struct {
	db *storage.PostgresStore
}

func NewActivityHandler(db *storage.PostgresStore) *ActivityHandler {
	return &ActivityHandler{db: db}
}

func (h *ActivityHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	logs, err := h.db.ListActivityLogs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}
