package messaging

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/ports"
	"context"
	"fmt"
)

// EventPublisher implements ports.ApplicationEvents on top of a Publisher.
// Behind the outbox writer the messages join the caller's transaction.
type EventPublisher struct {
	pub    Publisher
	topics Topics
}

var _ ports.ApplicationEvents = (*EventPublisher)(nil)

func NewEventPublisher(pub Publisher, topics Topics) *EventPublisher {
	return &EventPublisher{pub: pub, topics: topics}
}

func (p *EventPublisher) CargoWasHandled(ctx context.Context, event domain.HandlingEvent) error {
	raw, err := encodeCargoHandled(event)
	if err != nil {
		return fmt.Errorf("encode cargo handled: %w", err)
	}
	return p.publish(ctx, CargoHandled, event.TrackingID, raw)
}

func (p *EventPublisher) CargoWasMisdirected(ctx context.Context, cargo *domain.Cargo) error {
	raw, err := encodeCargoStatus(cargo)
	if err != nil {
		return fmt.Errorf("encode cargo misdirected: %w", err)
	}
	return p.publish(ctx, CargoMisdirected, cargo.TrackingID(), raw)
}

func (p *EventPublisher) CargoHasArrived(ctx context.Context, cargo *domain.Cargo) error {
	raw, err := encodeCargoStatus(cargo)
	if err != nil {
		return fmt.Errorf("encode cargo arrived: %w", err)
	}
	return p.publish(ctx, CargoArrived, cargo.TrackingID(), raw)
}

func (p *EventPublisher) ReceivedHandlingEventRegistrationAttempt(ctx context.Context, attempt ports.HandlingEventRegistrationAttempt) error {
	raw, err := encodeHandlingAttempt(attempt)
	if err != nil {
		return fmt.Errorf("encode handling attempt: %w", err)
	}
	return p.publish(ctx, HandlingAttempted, attempt.TrackingID, raw)
}

func (p *EventPublisher) publish(ctx context.Context, base string, key domain.TrackingID, raw []byte) error {
	msg := Message{Topic: p.topics.Name(base), Key: key.String(), Value: raw}
	if err := p.pub.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for %s: %w", msg.Topic, key, err)
	}
	return nil
}
