package models

import (
	"time"

	"github.com/google/uuid"
)

// PlateCandidate is an unverified detection awaiting operator review.
// Its ID doubles as the correlation id for evidence images uploaded for
// the same detection event.
type PlateCandidate struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Plate              string     `json:"plate" db:"plate"`
	Province           string     `json:"province,omitempty" db:"province"`
	CameraID           string     `json:"id_camera,omitempty" db:"id_camera"`
	CameraName         string     `json:"camera_name,omitempty" db:"camera_name"`
	CharConfidences    []float64  `json:"char_confidences,omitempty" db:"char_confidences"`
	ProvinceConfidence *float64   `json:"province_confidence,omitempty" db:"province_confidence"`
	UploadedBy         *uuid.UUID `json:"uploaded_by,omitempty" db:"uploaded_by"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// CandidatePatch is a partial update to a candidate's mutable fields.
// Nil means "leave unchanged".
type CandidatePatch struct {
	Plate      *string `json:"plate,omitempty"`
	Province   *string `json:"province,omitempty"`
	CameraID   *string `json:"id_camera,omitempty"`
	CameraName *string `json:"camera_name,omitempty"`
}

// PlateDetection is the message the external OCR pipeline publishes to
// the DETECTIONS stream.
type PlateDetection struct {
	Plate              string    `json:"plate"`
	Province           string    `json:"province,omitempty"`
	CameraID           string    `json:"id_camera,omitempty"`
	CameraName         string    `json:"camera_name,omitempty"`
	CharConfidences    []float64 `json:"char_confidences,omitempty"`
	ProvinceConfidence *float64  `json:"province_confidence,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}
