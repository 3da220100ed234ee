package models

import (
	"time"

	"github.com/google/uuid"
)

// WatchlistEntry flags a plate number of interest. Incoming detections
// matching the plate text raise an alert.
type WatchlistEntry struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Plate     string     `json:"plate" db:"plate"`
	Note      string     `json:"note,omitempty" db:"note"`
	AddedBy   *uuid.UUID `json:"added_by,omitempty" db:"added_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type Alert struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WatchlistID uuid.UUID `json:"watchlist_id" db:"watchlist_id"`
	CandidateID uuid.UUID `json:"candidate_id" db:"candidate_id"`
	Plate       string    `json:"plate" db:"plate"`
	CameraName  string    `json:"camera_name,omitempty" db:"camera_name"`
	DetectedAt  time.Time `json:"detected_at" db:"detected_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
