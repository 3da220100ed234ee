package dto

import "github.com/google/uuid"

type CandidateResponse struct {
	ID                 uuid.UUID `json:"id"`
	Plate              string    `json:"plate"`
	Province           string    `json:"province,omitempty"`
	CameraID           string    `json:"id_camera,omitempty"`
	CameraName         string    `json:"camera_name,omitempty"`
	CharConfidences    []float64 `json:"char_confidences,omitempty"`
	ProvinceConfidence *float64  `json:"province_confidence,omitempty"`
	CreatedAt          string    `json:"created_at"`
}

type CandidateListResponse struct {
	Candidates []CandidateResponse `json:"candidates"`
	Total      int                 `json:"total"`
}

type VerifyResponse struct {
	Status  string    `json:"status"`
	PlateID uuid.UUID `json:"plate_id"`
}
