package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/ports"
	"context"
	"fmt"
	"strings"
)

const trackingTimeLayout = "01/02/2006 03:04 PM MST"

// TrackingView is the public, human-readable picture of a cargo.
type TrackingView struct {
	TrackingID           string
	Origin               string
	Destination          string
	StatusText           string
	Misdirected          bool
	ETA                  string
	NextExpectedActivity string
	RoutingStatus        string
	Events               []TrackingEventView
}

type TrackingEventView struct {
	Location     string
	Time         string
	Type         string
	VoyageNumber string
	Expected     bool
	Description  string
}

// NewTrackingView renders cargo and its handling events, in the order given.
func NewTrackingView(cargo *domain.Cargo, events []domain.HandlingEvent) TrackingView {
	delivery := cargo.Delivery()
	itinerary := cargo.Itinerary()

	view := TrackingView{
		TrackingID:           cargo.TrackingID().String(),
		Origin:               cargo.Origin().DisplayName(),
		Destination:          cargo.RouteSpecification().Destination.DisplayName(),
		StatusText:           statusText(delivery),
		Misdirected:          delivery.Misdirected,
		ETA:                  "?",
		NextExpectedActivity: nextActivityText(delivery.NextExpectedActivity),
		RoutingStatus:        string(delivery.RoutingStatus),
		Events:               make([]TrackingEventView, 0, len(events)),
	}
	if eta, ok := delivery.EstimatedTimeOfArrival(); ok {
		view.ETA = eta.Format(trackingTimeLayout)
	}

	for _, e := range events {
		view.Events = append(view.Events, TrackingEventView{
			Location:     e.Location.DisplayName(),
			Time:         e.CompletionTime.Format(trackingTimeLayout),
			Type:         e.Type.String(),
			VoyageNumber: e.Voyage.String(),
			Expected:     itinerary.IsExpected(e),
			Description:  eventDescription(e),
		})
	}
	return view
}

func statusText(d domain.Delivery) string {
	switch d.TransportStatus {
	case domain.InPort:
		return "In port " + d.LastKnownLocation.DisplayName()
	case domain.OnboardCarrier:
		return "Onboard voyage " + d.CurrentVoyage.String()
	case domain.Claimed:
		return "Claimed"
	case domain.NotReceived:
		return "Not received"
	case domain.UnknownStatus:
		return "Unknown"
	}
	return "[Unknown status]"
}

func nextActivityText(a domain.HandlingActivity) string {
	if a.IsEmpty() {
		return ""
	}
	verb := strings.ToLower(a.Type.String())
	switch a.Type {
	case domain.Load:
		return fmt.Sprintf("Next expected activity is to %s cargo onto voyage %s in %s", verb, a.Voyage, a.Location.DisplayName())
	case domain.Unload:
		return fmt.Sprintf("Next expected activity is to %s cargo off of %s in %s", verb, a.Voyage, a.Location.DisplayName())
	}
	return fmt.Sprintf("Next expected activity is to %s cargo in %s", verb, a.Location.DisplayName())
}

func eventDescription(e domain.HandlingEvent) string {
	at := e.CompletionTime.Format(trackingTimeLayout)
	where := e.Location.DisplayName()
	switch e.Type {
	case domain.Load:
		return fmt.Sprintf("Loaded onto voyage %s in %s, at %s.", e.Voyage, where, at)
	case domain.Unload:
		return fmt.Sprintf("Unloaded off voyage %s in %s, at %s.", e.Voyage, where, at)
	case domain.Receive:
		return fmt.Sprintf("Received in %s, at %s.", where, at)
	case domain.Claim:
		return fmt.Sprintf("Claimed in %s, at %s.", where, at)
	case domain.Customs:
		return fmt.Sprintf("Cleared customs in %s, at %s.", where, at)
	}
	return "[Unknown]"
}

// TrackingService answers "where is my cargo".
type TrackingService struct {
	cargos ports.CargoRepository
	events ports.HandlingEventRepository
}

func NewTrackingService(cargos ports.CargoRepository, events ports.HandlingEventRepository) *TrackingService {
	return &TrackingService{cargos: cargos, events: events}
}

func (s *TrackingService) Track(ctx context.Context, id domain.TrackingID) (TrackingView, error) {
	cargo, err := findCargo(ctx, s.cargos, id)
	if err != nil {
		return TrackingView{}, fmt.Errorf("track: %w", err)
	}
	history, err := s.events.LookupHandlingHistoryOfCargo(ctx, id)
	if err != nil {
		return TrackingView{}, fmt.Errorf("track %s: load history: %w", id, err)
	}
	return NewTrackingView(cargo, history.DistinctEventsByCompletionTime()), nil
}
