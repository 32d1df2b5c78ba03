package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/platform/tx"
	"cargo-tracking-service/internal/ports"
	"context"
	"fmt"
	"time"
)

// One leg of a route chosen by a client, in raw references.
type RouteLeg struct {
	VoyageNumber domain.VoyageNumber
	From         domain.UnLocode
	To           domain.UnLocode
	LoadTime     time.Time
	UnloadTime   time.Time
}

// BookingService books cargos and changes their routing. Every change
// recomputes delivery synchronously under the cargo's lock.
type BookingService struct {
	cargos    ports.CargoRepository
	locations ports.LocationRepository
	voyages   ports.VoyageRepository
	routing   *RoutingService
	locker    ports.CargoLocker
	tx        tx.Runner
	clock     clock.Clock
}

func NewBookingService(
	cargos ports.CargoRepository,
	locations ports.LocationRepository,
	voyages ports.VoyageRepository,
	routing *RoutingService,
	locker ports.CargoLocker,
	runner tx.Runner,
	clk clock.Clock,
) *BookingService {
	return &BookingService{
		cargos:    cargos,
		locations: locations,
		voyages:   voyages,
		routing:   routing,
		locker:    locker,
		tx:        runner,
		clock:     clk,
	}
}

func (s *BookingService) BookNewCargo(ctx context.Context, origin, destination domain.UnLocode, arrivalDeadline time.Time) (_ domain.TrackingID, err error) {
	ctx, done := obs.Span(ctx, "booking.BookNewCargo")
	defer done(&err)

	from, err := findLocation(ctx, s.locations, origin)
	if err != nil {
		return "", fmt.Errorf("book new cargo: %w", err)
	}
	to, err := findLocation(ctx, s.locations, destination)
	if err != nil {
		return "", fmt.Errorf("book new cargo: %w", err)
	}

	spec, err := domain.NewRouteSpecification(from, to, arrivalDeadline)
	if err != nil {
		return "", fmt.Errorf("book new cargo: %w", err)
	}

	cargo, err := domain.NewCargo(s.cargos.NextTrackingID(), spec, s.clock.Now())
	if err != nil {
		return "", fmt.Errorf("book new cargo: %w", err)
	}
	if err := s.cargos.Store(ctx, cargo); err != nil {
		return "", fmt.Errorf("book new cargo: store: %w", err)
	}

	logger.FromContext(ctx).Info("cargo booked",
		"tracking_id", cargo.TrackingID(),
		"origin", origin,
		"destination", destination,
		"arrival_deadline", arrivalDeadline,
	)
	return cargo.TrackingID(), nil
}

// RequestPossibleRoutesForCargo returns candidates that satisfy the cargo's
// current route specification. It never changes the cargo.
func (s *BookingService) RequestPossibleRoutesForCargo(ctx context.Context, id domain.TrackingID) ([]domain.Itinerary, error) {
	cargo, err := findCargo(ctx, s.cargos, id)
	if err != nil {
		return nil, fmt.Errorf("request possible routes: %w", err)
	}
	routes, err := s.routing.FetchRoutesForSpecification(ctx, cargo.RouteSpecification())
	if err != nil {
		return nil, fmt.Errorf("request possible routes for %s: %w", id, err)
	}
	return routes, nil
}

func (s *BookingService) AssignCargoToRoute(ctx context.Context, id domain.TrackingID, route []RouteLeg) (err error) {
	ctx, done := obs.Span(ctx, "booking.AssignCargoToRoute")
	defer done(&err)

	itinerary, err := s.resolveItinerary(ctx, route)
	if err != nil {
		return fmt.Errorf("assign cargo %s to route: %w", id, err)
	}

	return s.modify(ctx, id, "assign cargo to route", func(cargo *domain.Cargo, now time.Time) error {
		return cargo.AssignToRoute(itinerary, now)
	})
}

func (s *BookingService) ChangeDestination(ctx context.Context, id domain.TrackingID, destination domain.UnLocode) (err error) {
	ctx, done := obs.Span(ctx, "booking.ChangeDestination")
	defer done(&err)

	to, err := findLocation(ctx, s.locations, destination)
	if err != nil {
		return fmt.Errorf("change destination of %s: %w", id, err)
	}

	return s.modify(ctx, id, "change destination", func(cargo *domain.Cargo, now time.Time) error {
		current := cargo.RouteSpecification()
		spec, err := domain.NewRouteSpecification(current.Origin, to, current.ArrivalDeadline)
		if err != nil {
			return err
		}
		return cargo.SpecifyNewRoute(spec, now)
	})
}

func (s *BookingService) ChangeDeadline(ctx context.Context, id domain.TrackingID, deadline time.Time) (err error) {
	ctx, done := obs.Span(ctx, "booking.ChangeDeadline")
	defer done(&err)

	return s.modify(ctx, id, "change deadline", func(cargo *domain.Cargo, now time.Time) error {
		current := cargo.RouteSpecification()
		spec, err := domain.NewRouteSpecification(current.Origin, current.Destination, deadline)
		if err != nil {
			return err
		}
		return cargo.SpecifyNewRoute(spec, now)
	})
}

// Return every booked cargo.
func (s *BookingService) ListCargos(ctx context.Context) ([]*domain.Cargo, error) {
	cargos, err := s.cargos.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cargos: %w", err)
	}
	return cargos, nil
}

func (s *BookingService) LoadCargo(ctx context.Context, id domain.TrackingID) (*domain.Cargo, error) {
	return findCargo(ctx, s.cargos, id)
}

// Return every location a cargo can be booked from or to.
func (s *BookingService) ListLocations(ctx context.Context) ([]domain.Location, error) {
	locations, err := s.locations.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return locations, nil
}

func (s *BookingService) ListUnLocodes(ctx context.Context) ([]domain.UnLocode, error) {
	locations, err := s.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UnLocode, 0, len(locations))
	for _, l := range locations {
		out = append(out, l.UnLocode)
	}
	return out, nil
}

// modify loads, changes and stores a cargo while holding its lock.
func (s *BookingService) modify(ctx context.Context, id domain.TrackingID, op string, change func(*domain.Cargo, time.Time) error) error {
	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return fmt.Errorf("%s %s: acquire lock: %w", op, id, err)
	}
	defer release()

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cargo, err := findCargo(ctx, s.cargos, id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := change(cargo, s.clock.Now()); err != nil {
			return fmt.Errorf("%s %s: %w", op, id, err)
		}
		if err := s.cargos.Store(ctx, cargo); err != nil {
			return fmt.Errorf("%s %s: store: %w", op, id, err)
		}
		logger.FromContext(ctx).Info("cargo rerouted",
			"op", op,
			"tracking_id", id,
			"routing_status", cargo.Delivery().RoutingStatus,
		)
		return nil
	})
}

func (s *BookingService) resolveItinerary(ctx context.Context, route []RouteLeg) (domain.Itinerary, error) {
	legs := make([]domain.Leg, 0, len(route))
	for _, r := range route {
		voyage, err := findVoyage(ctx, s.voyages, r.VoyageNumber)
		if err != nil {
			return domain.EmptyItinerary, err
		}
		from, err := findLocation(ctx, s.locations, r.From)
		if err != nil {
			return domain.EmptyItinerary, err
		}
		to, err := findLocation(ctx, s.locations, r.To)
		if err != nil {
			return domain.EmptyItinerary, err
		}
		leg, err := domain.NewLeg(voyage.Number, from, to, r.LoadTime.UTC(), r.UnloadTime.UTC())
		if err != nil {
			return domain.EmptyItinerary, err
		}
		legs = append(legs, leg)
	}
	return domain.NewItinerary(legs...)
}
