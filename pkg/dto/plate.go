package dto

import "github.com/google/uuid"

type AddPlateRequest struct {
	Plate      string `json:"plate" binding:"required"`
	Province   string `json:"province"`
	CameraID   string `json:"id_camera"`
	CameraName string `json:"camera_name"`
}

type PlateResponse struct {
	ID         uuid.UUID `json:"id"`
	Plate      string    `json:"plate"`
	Province   string    `json:"province,omitempty"`
	CameraID   string    `json:"id_camera,omitempty"`
	CameraName string    `json:"camera_name,omitempty"`
	Timestamp  string    `json:"timestamp"`
	Verified   bool      `json:"verified"`
}

type PlateListResponse struct {
	Plates []PlateResponse `json:"plates"`
	Total  int             `json:"total"`
}

type EditPlateRequest struct {
	Plate  string `json:"plate" binding:"required"`
	Reason string `json:"reason"`
}
