package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is an append-only audit record. UserID is null for system
// or anonymous actions.
type ActivityLog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Action      string     `json:"action" db:"action"`
	Description string     `json:"description,omitempty" db:"description"`
	IPAddress   string     `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent   string     `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
