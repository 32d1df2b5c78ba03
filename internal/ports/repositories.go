package ports

import (
	"cargo-tracking-service/internal/domain"
	"context"
)

// Port: a boundary for loading and storing Cargo aggregates.
// Lookups of a missing cargo return an error wrapping sentinel.ErrNotFound.
type CargoRepository interface {
	// Return the cargo with the given tracking id.
	Find(ctx context.Context, id domain.TrackingID) (*domain.Cargo, error)
	// Return every booked cargo ordered by tracking id.
	FindAll(ctx context.Context) ([]*domain.Cargo, error)
	// Insert or replace the cargo, its itinerary and delivery snapshot.
	Store(ctx context.Context, cargo *domain.Cargo) error
	NextTrackingID() domain.TrackingID
}

// Port: the append-only log of handling events.
type HandlingEventRepository interface {
	// Append the event and assign its ID.
	Store(ctx context.Context, event *domain.HandlingEvent) error
	// Return every event recorded for the cargo, in completion order.
	LookupHandlingHistoryOfCargo(ctx context.Context, id domain.TrackingID) (domain.HandlingHistory, error)
}

// Port: location reference data.
type LocationRepository interface {
	Find(ctx context.Context, code domain.UnLocode) (domain.Location, error)
	FindAll(ctx context.Context) ([]domain.Location, error)
}

// Port: voyage reference data.
type VoyageRepository interface {
	Find(ctx context.Context, number domain.VoyageNumber) (domain.Voyage, error)
	FindAll(ctx context.Context) ([]domain.Voyage, error)
}
