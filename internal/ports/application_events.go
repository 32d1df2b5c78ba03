package ports

//go:generate mockgen -source=application_events.go -destination=mocks/application_events.go -package=mocks

import (
	"cargo-tracking-service/internal/domain"
	"context"
	"time"
)

// A raw handling report as received from the outside, before any reference
// has been resolved.
type HandlingEventRegistrationAttempt struct {
	RegistrationTime time.Time
	CompletionTime   time.Time
	TrackingID       domain.TrackingID
	VoyageNumber     domain.VoyageNumber
	UnLocode         domain.UnLocode
	Type             domain.HandlingEventType
}

// Port: semantic notifications emitted by the application. Delivery is
// at-least-once; consumers must tolerate duplicates.
type ApplicationEvents interface {
	// A handling event was stored; the owning cargo needs to be inspected.
	CargoWasHandled(ctx context.Context, event domain.HandlingEvent) error
	CargoWasMisdirected(ctx context.Context, cargo *domain.Cargo) error
	CargoHasArrived(ctx context.Context, cargo *domain.Cargo) error
	ReceivedHandlingEventRegistrationAttempt(ctx context.Context, attempt HandlingEventRegistrationAttempt) error
}
