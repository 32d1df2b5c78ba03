package dto

import "time"

type BookCargoRequest struct {
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	ArrivalDeadline time.Time `json:"arrival_deadline"`
}

type BookCargoResponse struct {
	TrackingID string `json:"tracking_id"`
}

type LegDTO struct {
	VoyageNumber string    `json:"voyage_number"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	LoadTime     time.Time `json:"load_time"`
	UnloadTime   time.Time `json:"unload_time"`
}

type CargoResponse struct {
	TrackingID        string     `json:"tracking_id"`
	Origin            string     `json:"origin"`
	Destination       string     `json:"destination"`
	ArrivalDeadline   time.Time  `json:"arrival_deadline"`
	RoutingStatus     string     `json:"routing_status"`
	TransportStatus   string     `json:"transport_status"`
	Misdirected       bool       `json:"misdirected"`
	LastKnownLocation string     `json:"last_known_location,omitempty"`
	CurrentVoyage     string     `json:"current_voyage,omitempty"`
	ETA               *time.Time `json:"eta"`
	CalculatedAt      time.Time  `json:"calculated_at"`
	Legs              []LegDTO   `json:"legs"`
}

type ListCargosResponse struct {
	Cargos []CargoResponse `json:"cargos"`
}

type RouteCandidate struct {
	FinalArrival time.Time `json:"final_arrival"`
	Legs         []LegDTO  `json:"legs"`
}

type ListRoutesResponse struct {
	Routes []RouteCandidate `json:"routes"`
}

type AssignRouteRequest struct {
	Legs []LegDTO `json:"legs"`
}

type ChangeDestinationRequest struct {
	Destination string `json:"destination"`
}

type ChangeDeadlineRequest struct {
	ArrivalDeadline time.Time `json:"arrival_deadline"`
}

type TrackingEventResponse struct {
	Location     string `json:"location"`
	Time         string `json:"time"`
	Type         string `json:"type"`
	VoyageNumber string `json:"voyage_number,omitempty"`
	Expected     bool   `json:"expected"`
	Description  string `json:"description"`
}

type TrackingResponse struct {
	TrackingID           string                  `json:"tracking_id"`
	Origin               string                  `json:"origin"`
	Destination          string                  `json:"destination"`
	StatusText           string                  `json:"status_text"`
	Misdirected          bool                    `json:"misdirected"`
	ETA                  string                  `json:"eta"`
	NextExpectedActivity string                  `json:"next_expected_activity"`
	RoutingStatus        string                  `json:"routing_status"`
	Events               []TrackingEventResponse `json:"events"`
}
