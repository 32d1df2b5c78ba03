package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/clock"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/metrics"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/platform/tx"
	"cargo-tracking-service/internal/ports"
	"context"
	"fmt"
)

// CargoInspectionService projects handling history onto the cargo's
// delivery snapshot. It runs once per "cargo was handled" notification.
type CargoInspectionService struct {
	cargos ports.CargoRepository
	events ports.HandlingEventRepository
	app    ports.ApplicationEvents
	locker ports.CargoLocker
	tx     tx.Runner
	clock  clock.Clock
}

func NewCargoInspectionService(
	cargos ports.CargoRepository,
	events ports.HandlingEventRepository,
	app ports.ApplicationEvents,
	locker ports.CargoLocker,
	runner tx.Runner,
	clk clock.Clock,
) *CargoInspectionService {
	return &CargoInspectionService{
		cargos: cargos,
		events: events,
		app:    app,
		locker: locker,
		tx:     runner,
		clock:  clk,
	}
}

// InspectCargo re-derives delivery from the full handling history under the
// cargo's lock. A notification that does not change the snapshot (apart from
// its timestamp) stores and emits nothing.
func (s *CargoInspectionService) InspectCargo(ctx context.Context, id domain.TrackingID) (err error) {
	ctx, done := obs.Span(ctx, "inspection.InspectCargo")
	defer done(&err)

	release, err := s.locker.Acquire(ctx, id)
	if err != nil {
		return fmt.Errorf("inspect cargo %s: acquire lock: %w", id, err)
	}
	defer release()

	log := logger.FromContext(ctx).With("tracking_id", id)

	var (
		changed bool
		after   domain.Delivery
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cargo, err := findCargo(ctx, s.cargos, id)
		if err != nil {
			return fmt.Errorf("inspect cargo: %w", err)
		}

		history, err := s.events.LookupHandlingHistoryOfCargo(ctx, id)
		if err != nil {
			return fmt.Errorf("inspect cargo %s: load history: %w", id, err)
		}

		before := cargo.Delivery()
		if err := cargo.DeriveDeliveryProgress(history, s.clock.Now()); err != nil {
			return fmt.Errorf("inspect cargo %s: %w", id, err)
		}
		after = cargo.Delivery()

		if after.SameStatusAs(before) {
			return nil
		}
		changed = true

		if err := s.cargos.Store(ctx, cargo); err != nil {
			return fmt.Errorf("inspect cargo %s: store: %w", id, err)
		}

		if after.Misdirected {
			if err := s.app.CargoWasMisdirected(ctx, cargo); err != nil {
				return fmt.Errorf("inspect cargo %s: announce misdirection: %w", id, err)
			}
		}
		if after.UnloadedAtDestination {
			if err := s.app.CargoHasArrived(ctx, cargo); err != nil {
				return fmt.Errorf("inspect cargo %s: announce arrival: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !changed {
		metrics.CargoInspections.WithLabelValues("unchanged").Inc()
		log.Debug("cargo inspected, delivery unchanged")
		return nil
	}

	if after.Misdirected {
		metrics.CargosMisdirected.Inc()
	}
	if after.UnloadedAtDestination {
		metrics.CargosArrived.Inc()
	}
	metrics.CargoInspections.WithLabelValues("updated").Inc()
	log.Info("cargo inspected",
		"transport_status", after.TransportStatus,
		"routing_status", after.RoutingStatus,
		"misdirected", after.Misdirected,
		"last_known_location", after.LastKnownLocation.UnLocode,
	)
	return nil
}
