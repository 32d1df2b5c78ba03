package messaging

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/ports"
	"encoding/json"
	"fmt"
	"time"
)

type cargoHandledPayload struct {
	EventID          int64     `json:"eventId"`
	TrackingID       string    `json:"trackingId"`
	Type             string    `json:"type"`
	UnLocode         string    `json:"unLocode"`
	VoyageNumber     string    `json:"voyageNumber,omitempty"`
	CompletionTime   time.Time `json:"completionTime"`
	RegistrationTime time.Time `json:"registrationTime"`
}

type cargoStatusPayload struct {
	TrackingID            string     `json:"trackingId"`
	TransportStatus       string     `json:"transportStatus"`
	RoutingStatus         string     `json:"routingStatus"`
	LastKnownLocation     string     `json:"lastKnownLocation,omitempty"`
	CurrentVoyage         string     `json:"currentVoyage,omitempty"`
	Misdirected           bool       `json:"misdirected"`
	UnloadedAtDestination bool       `json:"unloadedAtDestination"`
	ETA                   *time.Time `json:"eta,omitempty"`
	CalculatedAt          time.Time  `json:"calculatedAt"`
}

type handlingAttemptPayload struct {
	RegistrationTime time.Time `json:"registrationTime"`
	CompletionTime   time.Time `json:"completionTime"`
	TrackingID       string    `json:"trackingId"`
	VoyageNumber     string    `json:"voyageNumber,omitempty"`
	UnLocode         string    `json:"unLocode"`
	Type             string    `json:"type"`
}

func encodeCargoHandled(e domain.HandlingEvent) ([]byte, error) {
	return json.Marshal(cargoHandledPayload{
		EventID:          e.ID,
		TrackingID:       e.TrackingID.String(),
		Type:             e.Type.String(),
		UnLocode:         e.Location.UnLocode.String(),
		VoyageNumber:     e.Voyage.String(),
		CompletionTime:   e.CompletionTime,
		RegistrationTime: e.RegistrationTime,
	})
}

func decodeCargoHandled(raw []byte) (domain.TrackingID, error) {
	var p cargoHandledPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", fmt.Errorf("%w: cargo handled: %w", ErrMalformedMessage, err)
	}
	id, err := domain.ParseTrackingID(p.TrackingID)
	if err != nil {
		return "", fmt.Errorf("%w: cargo handled: %w", ErrMalformedMessage, err)
	}
	return id, nil
}

func encodeCargoStatus(c *domain.Cargo) ([]byte, error) {
	d := c.Delivery()
	p := cargoStatusPayload{
		TrackingID:            c.TrackingID().String(),
		TransportStatus:       string(d.TransportStatus),
		RoutingStatus:         string(d.RoutingStatus),
		LastKnownLocation:     d.LastKnownLocation.UnLocode.String(),
		CurrentVoyage:         d.CurrentVoyage.String(),
		Misdirected:           d.Misdirected,
		UnloadedAtDestination: d.UnloadedAtDestination,
		CalculatedAt:          d.CalculatedAt,
	}
	if eta, ok := d.EstimatedTimeOfArrival(); ok {
		p.ETA = &eta
	}
	return json.Marshal(p)
}

func decodeCargoStatus(raw []byte) (cargoStatusPayload, error) {
	var p cargoStatusPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return cargoStatusPayload{}, fmt.Errorf("%w: cargo status: %w", ErrMalformedMessage, err)
	}
	return p, nil
}

func encodeHandlingAttempt(a ports.HandlingEventRegistrationAttempt) ([]byte, error) {
	return json.Marshal(handlingAttemptPayload{
		RegistrationTime: a.RegistrationTime,
		CompletionTime:   a.CompletionTime,
		TrackingID:       a.TrackingID.String(),
		VoyageNumber:     a.VoyageNumber.String(),
		UnLocode:         a.UnLocode.String(),
		Type:             a.Type.String(),
	})
}

func decodeHandlingAttempt(raw []byte) (ports.HandlingEventRegistrationAttempt, error) {
	var p handlingAttemptPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return ports.HandlingEventRegistrationAttempt{}, fmt.Errorf("%w: handling attempt: %w", ErrMalformedMessage, err)
	}
	eventType, err := domain.ParseHandlingEventType(p.Type)
	if err != nil {
		return ports.HandlingEventRegistrationAttempt{}, fmt.Errorf("%w: handling attempt: %w", ErrMalformedMessage, err)
	}
	return ports.HandlingEventRegistrationAttempt{
		RegistrationTime: p.RegistrationTime,
		CompletionTime:   p.CompletionTime,
		TrackingID:       domain.TrackingID(p.TrackingID),
		VoyageNumber:     domain.VoyageNumber(p.VoyageNumber),
		UnLocode:         domain.UnLocode(p.UnLocode),
		Type:             eventType,
	}, nil
}
