package dto

import "github.com/google/uuid"

// SearchRequest carries the raw optional filter fields. Dates use
// DD/MM/YYYY; months, years and hours are numeric strings so absence is
// distinguishable from zero.
type SearchRequest struct {
	SearchTerm string `json:"search_term"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	StartMonth string `json:"start_month"`
	EndMonth   string `json:"end_month"`
	StartYear  string `json:"start_year"`
	EndYear    string `json:"end_year"`
	StartHour  string `json:"start_hour"`
	EndHour    string `json:"end_hour"`
	Province   string `json:"province"`
	CameraID   string `json:"id_camera"`
	CameraName string `json:"camera_name"`
	Limit      int    `json:"limit"`
}

// PlateResult is one formatted search hit. Timestamp is rendered in the
// business timezone display convention.
type PlateResult struct {
	ID         uuid.UUID `json:"id"`
	Plate      string    `json:"plate"`
	Province   string    `json:"province,omitempty"`
	CameraID   string    `json:"id_camera,omitempty"`
	CameraName string    `json:"camera_name,omitempty"`
	Timestamp  string    `json:"timestamp"`
	Verified   bool      `json:"verified"`
}

type SearchResponse struct {
	Results []PlateResult `json:"results"`
	Total   int           `json:"total"`
}
