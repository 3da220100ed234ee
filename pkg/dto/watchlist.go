package dto

import "github.com/google/uuid"

type AddWatchlistRequest struct {
	Plate string `json:"plate" binding:"required"`
	Note  string `json:"note"`
}

type AddCameraRequest struct {
	CameraID string `json:"id_camera" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

// AlertEvent is a WebSocket message pushed when a detection matches a
// watchlist entry.
type AlertEvent struct {
	Type        string    `json:"type"`
	AlertID     uuid.UUID `json:"alert_id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Plate       string    `json:"plate"`
	CameraName  string    `json:"camera_name,omitempty"`
	DetectedAt  string    `json:"detected_at"`
}
