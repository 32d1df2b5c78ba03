package dto

import "time"

// Completion time accepts RFC 3339 or "2006-01-02 15:04" (UTC).
type HandlingReportRequest struct {
	CompletionTime string `json:"completion_time"`
	TrackingID     string `json:"tracking_id"`
	VoyageNumber   string `json:"voyage_number"`
	UnLocode       string `json:"unlocode"`
	EventType      string `json:"event_type"`
}

type HandlingReportResponse struct {
	TrackingID       string    `json:"tracking_id"`
	EventType        string    `json:"event_type"`
	RegistrationTime time.Time `json:"registration_time"`
}

type LocationResponse struct {
	UnLocode string `json:"unlocode"`
	Name     string `json:"name"`
}

type ListLocationsResponse struct {
	Locations []LocationResponse `json:"locations"`
}
