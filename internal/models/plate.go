package models

import (
	"time"

	"github.com/google/uuid"
)

// Plate is an authoritative, operator-confirmed detection record.
// Timestamp is the business time of the detection, inherited from the
// source candidate; it is distinct from CreatedAt only on legacy
// direct-insert rows.
type Plate struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Plate      string     `json:"plate" db:"plate"`
	Province   string     `json:"province,omitempty" db:"province"`
	CameraID   string     `json:"id_camera,omitempty" db:"id_camera"`
	CameraName string     `json:"camera_name,omitempty" db:"camera_name"`
	UserID     *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Timestamp  time.Time  `json:"timestamp" db:"timestamp"`
	Verified   bool       `json:"verified" db:"verified"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// PlateCharacter is one recognized character of a verified plate,
// position-indexed against the plate text.
type PlateCharacter struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PlateID    uuid.UUID `json:"plate_id" db:"plate_id"`
	Position   int       `json:"position" db:"position"`
	Character  string    `json:"character" db:"character"`
	Confidence float64   `json:"confidence" db:"confidence"`
}

// PlateEdit records a plate-text correction. PlateID is null for edits
// made before verification; CandidateID links those pending rows to the
// candidate so verification can resolve them once the plate exists.
type PlateEdit struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	PlateID     *uuid.UUID `json:"plate_id,omitempty" db:"plate_id"`
	CandidateID *uuid.UUID `json:"candidate_id,omitempty" db:"candidate_id"`
	OldPlate    string     `json:"old_plate" db:"old_plate"`
	NewPlate    string     `json:"new_plate" db:"new_plate"`
	EditedBy    uuid.UUID  `json:"edited_by" db:"edited_by"`
	Reason      string     `json:"reason" db:"reason"`
	EditedAt    time.Time  `json:"edited_at" db:"edited_at"`
}
