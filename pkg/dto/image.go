package dto

import "github.com/google/uuid"

type ImageResponse struct {
	ID            uuid.UUID  `json:"id"`
	CorrelationID uuid.UUID  `json:"correlation_id"`
	URL           string     `json:"url"`
	Verified      bool       `json:"verified"`
	PlateID       *uuid.UUID `json:"plate_id,omitempty"`
	UploadedAt    string     `json:"uploaded_at"`
}
