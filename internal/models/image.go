package models

import (
	"time"

	"github.com/google/uuid"
)

// PlateImage is an uploaded evidence image. CorrelationID matches the
// candidate's id until verification links the row to a real plate.
type PlateImage struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CorrelationID uuid.UUID  `json:"correlation_id" db:"correlation_id"`
	ObjectKey     string     `json:"object_key" db:"object_key"`
	UploadedBy    *uuid.UUID `json:"uploaded_by,omitempty" db:"uploaded_by"`
	Verified      bool       `json:"verified" db:"verified"`
	PlateID       *uuid.UUID `json:"plate_id,omitempty" db:"plate_id"`
	UploadedAt    time.Time  `json:"uploaded_at" db:"uploaded_at"`
}
