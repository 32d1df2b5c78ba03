package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/sentinel"
	"cargo-tracking-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"time"
)

// HandlingEventFactory resolves the references of a handling report and
// builds the event. It never stores anything.
type HandlingEventFactory struct {
	Cargos    ports.CargoRepository
	Voyages   ports.VoyageRepository
	Locations ports.LocationRepository
}

func NewHandlingEventFactory(cargos ports.CargoRepository, voyages ports.VoyageRepository, locations ports.LocationRepository) *HandlingEventFactory {
	return &HandlingEventFactory{Cargos: cargos, Voyages: voyages, Locations: locations}
}

// CreateHandlingEvent fails with *domain.UnknownCargoError,
// *domain.UnknownVoyageError or *domain.UnknownLocationError when a reference
// does not resolve, and with domain.ErrInvalidHandlingEvent when the voyage
// does not fit the event type. An empty voyageNumber means "no voyage".
func (f *HandlingEventFactory) CreateHandlingEvent(
	ctx context.Context,
	registrationTime time.Time,
	completionTime time.Time,
	trackingID domain.TrackingID,
	voyageNumber domain.VoyageNumber,
	unLocode domain.UnLocode,
	eventType domain.HandlingEventType,
) (domain.HandlingEvent, error) {
	cargo, err := findCargo(ctx, f.Cargos, trackingID)
	if err != nil {
		return domain.HandlingEvent{}, fmt.Errorf("create handling event: %w", err)
	}

	voyage := domain.NoVoyage
	if !voyageNumber.IsNone() {
		v, err := findVoyage(ctx, f.Voyages, voyageNumber)
		if err != nil {
			return domain.HandlingEvent{}, fmt.Errorf("create handling event: %w", err)
		}
		voyage = v.Number
	}

	location, err := findLocation(ctx, f.Locations, unLocode)
	if err != nil {
		return domain.HandlingEvent{}, fmt.Errorf("create handling event: %w", err)
	}

	event, err := domain.NewHandlingEvent(cargo.TrackingID(), completionTime, registrationTime, eventType, location, voyage)
	if err != nil {
		return domain.HandlingEvent{}, fmt.Errorf("create handling event: %w", err)
	}
	return event, nil
}

func findCargo(ctx context.Context, cargos ports.CargoRepository, id domain.TrackingID) (*domain.Cargo, error) {
	c, err := cargos.Find(ctx, id)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, &domain.UnknownCargoError{TrackingID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("find cargo: %w", err)
	}
	return c, nil
}

func findLocation(ctx context.Context, locations ports.LocationRepository, code domain.UnLocode) (domain.Location, error) {
	l, err := locations.Find(ctx, code)
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.UnknownLocation, &domain.UnknownLocationError{UnLocode: code}
	}
	if err != nil {
		return domain.UnknownLocation, fmt.Errorf("find location: %w", err)
	}
	return l, nil
}

func findVoyage(ctx context.Context, voyages ports.VoyageRepository, number domain.VoyageNumber) (domain.Voyage, error) {
	v, err := voyages.Find(ctx, number)
	if errors.Is(err, sentinel.ErrNotFound) {
		return domain.Voyage{}, &domain.UnknownVoyageError{VoyageNumber: number}
	}
	if err != nil {
		return domain.Voyage{}, fmt.Errorf("find voyage: %w", err)
	}
	return v, nil
}
