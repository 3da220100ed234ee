package models

import (
	"time"

	"github.com/google/uuid"
)

type Camera struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CameraID  string    `json:"id_camera" db:"id_camera"`
	Name      string    `json:"name" db:"name"`
	Location  string    `json:"location,omitempty" db:"location"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
