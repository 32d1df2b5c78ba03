package messaging

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/ports"
	"context"
)

type CargoInspector interface {
	InspectCargo(ctx context.Context, id domain.TrackingID) error
}

type HandlingEventRegistrar interface {
	RegisterHandlingEvent(ctx context.Context, attempt ports.HandlingEventRegistrationAttempt) (domain.HandlingEvent, error)
}

// Subscribe wires every notification topic to the service that reacts to it.
func Subscribe(d *Dispatcher, topics Topics, inspector CargoInspector, registrar HandlingEventRegistrar) {
	d.Register(topics.Name(CargoHandled), func(ctx context.Context, msg Message) error {
		id, err := decodeCargoHandled(msg.Value)
		if err != nil {
			return err
		}
		return inspector.InspectCargo(ctx, id)
	})

	d.Register(topics.Name(HandlingAttempted), func(ctx context.Context, msg Message) error {
		attempt, err := decodeHandlingAttempt(msg.Value)
		if err != nil {
			return err
		}
		_, err = registrar.RegisterHandlingEvent(ctx, attempt)
		return err
	})

	d.Register(topics.Name(CargoMisdirected), func(ctx context.Context, msg Message) error {
		p, err := decodeCargoStatus(msg.Value)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Warn("cargo misdirected",
			"tracking_id", p.TrackingID,
			"last_known_location", p.LastKnownLocation,
			"routing_status", p.RoutingStatus,
		)
		return nil
	})

	d.Register(topics.Name(CargoArrived), func(ctx context.Context, msg Message) error {
		p, err := decodeCargoStatus(msg.Value)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info("cargo arrived at destination",
			"tracking_id", p.TrackingID,
			"location", p.LastKnownLocation,
		)
		return nil
	})
}
