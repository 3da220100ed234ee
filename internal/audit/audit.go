// Package audit appends user-activity records. Logging never fails from
// the caller's perspective: store errors are logged and dropped so the
// primary operation is unaffected.
package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/your-org/lpr/internal/models"
)

type Store interface {
	InsertActivityLog(ctx context.Context, l *models.ActivityLog) error
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

// Log appends one activity record. userID may be nil for system or
// anonymous actions.
func (l *Logger) Log(ctx context.Context, userID *uuid.UUID, action, description, ip, userAgent string) {
	entry := &models.ActivityLog{
		UserID:      userID,
		Action:      action,
		Description: description,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if err := l.store.InsertActivityLog(ctx, entry); err != nil {
		slog.Error("record activity", "action", action, "error", err)
	}
}
