package services

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/metrics"
	"cargo-tracking-service/internal/platform/obs"
	"cargo-tracking-service/internal/platform/tx"
	"cargo-tracking-service/internal/ports"
	"context"
	"fmt"
)

// HandlingEventService records handling events and announces them. Storing
// the event and emitting "cargo was handled" share one transaction, so the
// notification exists iff the event does.
type HandlingEventService struct {
	factory *HandlingEventFactory
	events  ports.HandlingEventRepository
	app     ports.ApplicationEvents
	tx      tx.Runner
}

func NewHandlingEventService(
	factory *HandlingEventFactory,
	events ports.HandlingEventRepository,
	app ports.ApplicationEvents,
	runner tx.Runner,
) *HandlingEventService {
	return &HandlingEventService{factory: factory, events: events, app: app, tx: runner}
}

func (s *HandlingEventService) RegisterHandlingEvent(ctx context.Context, attempt ports.HandlingEventRegistrationAttempt) (_ domain.HandlingEvent, err error) {
	ctx, done := obs.Span(ctx, "handling.RegisterHandlingEvent")
	defer done(&err)

	var event domain.HandlingEvent
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		e, err := s.factory.CreateHandlingEvent(ctx,
			attempt.RegistrationTime,
			attempt.CompletionTime,
			attempt.TrackingID,
			attempt.VoyageNumber,
			attempt.UnLocode,
			attempt.Type,
		)
		if err != nil {
			return err
		}
		if err := s.events.Store(ctx, &e); err != nil {
			return fmt.Errorf("store handling event: %w", err)
		}
		if err := s.app.CargoWasHandled(ctx, e); err != nil {
			return fmt.Errorf("announce handling event: %w", err)
		}
		event = e
		return nil
	})
	if err != nil {
		return domain.HandlingEvent{}, fmt.Errorf("register handling event for %s: %w", attempt.TrackingID, err)
	}

	metrics.HandlingEventsRegistered.WithLabelValues(event.Type.String()).Inc()
	logger.FromContext(ctx).Info("handling event registered",
		"tracking_id", event.TrackingID,
		"event_id", event.ID,
		"type", event.Type,
		"location", event.Location.UnLocode,
		"voyage", event.Voyage,
	)
	return event, nil
}
