package messaging

import (
	"cargo-tracking-service/internal/domain"
	"cargo-tracking-service/internal/platform/logger"
	"cargo-tracking-service/internal/platform/metrics"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"
)

const (
	defaultMaxReceives  = 5
	defaultRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff     = 5 * time.Second
)

// IsPermanent reports whether redelivering a message that failed with err
// can never succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrMalformedMessage) ||
		errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrInvalidHandlingEvent) ||
		errors.Is(err, domain.ErrReferenceResolution)
}

type DispatcherOptions struct {
	// MaxReceives is how many times a message is handed to its handler
	// before it is dead-lettered.
	MaxReceives  int
	RetryBackoff time.Duration
}

func WithMaxReceives(n int) func(o *DispatcherOptions) {
	return func(o *DispatcherOptions) {
		o.MaxReceives = n
	}
}

func WithRetryBackoff(d time.Duration) func(o *DispatcherOptions) {
	return func(o *DispatcherOptions) {
		o.RetryBackoff = d
	}
}

// Dispatcher routes consumed messages to handlers. Transient failures are
// retried with exponential backoff; poison messages and messages that keep
// failing go to the topic's dead-letter topic.
type Dispatcher struct {
	handlers     map[string]Handler
	deadLetters  Publisher
	maxReceives  int
	retryBackoff time.Duration
}

func NewDispatcher(deadLetters Publisher, opts ...func(o *DispatcherOptions)) *Dispatcher {
	o := &DispatcherOptions{
		MaxReceives:  defaultMaxReceives,
		RetryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.MaxReceives < 1 {
		o.MaxReceives = 1
	}
	return &Dispatcher{
		handlers:     make(map[string]Handler),
		deadLetters:  deadLetters,
		maxReceives:  o.MaxReceives,
		retryBackoff: o.RetryBackoff,
	}
}

func (d *Dispatcher) Register(topic string, h Handler) {
	d.handlers[topic] = h
}

// Topics lists the subscribed topics in a stable order.
func (d *Dispatcher) Topics() []string {
	return slices.Sorted(maps.Keys(d.handlers))
}

// Dispatch returns nil once the message is handled or dead-lettered. An
// error means the message was neither and must be redelivered.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) error {
	h, ok := d.handlers[msg.Topic]
	if !ok {
		logger.FromContext(ctx).Warn("no handler for topic, dropping message", "topic", msg.Topic, "key", msg.Key)
		metrics.MessagesHandled.WithLabelValues(msg.Topic, "dropped").Inc()
		return nil
	}

	log := logger.FromContext(ctx).With("topic", msg.Topic, "key", msg.Key)
	backoff := d.retryBackoff

	for receive := 1; ; receive++ {
		err := h(ctx, msg)
		if err == nil {
			metrics.MessagesHandled.WithLabelValues(msg.Topic, "ok").Inc()
			return nil
		}

		if IsPermanent(err) || receive >= d.maxReceives {
			log.Error("dead-lettering message", "receives", receive, "permanent", IsPermanent(err), "err", err)
			return d.deadLetter(ctx, msg, receive, err)
		}

		metrics.MessagesHandled.WithLabelValues(msg.Topic, "retry").Inc()
		log.Warn("message handling failed, retrying", "receives", receive, "backoff", backoff, "err", err)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("dispatch %s: %w", msg.Topic, ctx.Err())
		case <-timer.C:
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func (d *Dispatcher) deadLetter(ctx context.Context, msg Message, receives int, cause error) error {
	headers := maps.Clone(msg.Headers)
	if headers == nil {
		headers = make(map[string]string, 3)
	}
	headers["error"] = cause.Error()
	headers["receives"] = strconv.Itoa(receives)
	headers["original-topic"] = msg.Topic

	dlq := Message{Topic: DeadLetterTopic(msg.Topic), Key: msg.Key, Value: msg.Value, Headers: headers}
	if err := d.deadLetters.Publish(ctx, dlq); err != nil {
		return fmt.Errorf("dead-letter %s: %w", msg.Topic, err)
	}
	metrics.MessagesHandled.WithLabelValues(msg.Topic, "dead_letter").Inc()
	return nil
}
