package messaging

import (
	"context"
	"errors"
)

// Base topic names. Deployed names carry a prefix, see Topics.
const (
	CargoHandled      = "cargo.handled"
	CargoMisdirected  = "cargo.misdirected"
	CargoArrived      = "cargo.arrived"
	HandlingAttempted = "handling.attempt"

	deadLetterSuffix = ".dlq"
)

// ErrMalformedMessage marks a message that can never be processed.
var ErrMalformedMessage = errors.New("malformed message")

// Message is one notification on the wire. Key is the tracking id, so a
// partitioned transport keeps one cargo's notifications in order.
type Message struct {
	Topic   string
	Key     string
	Value   []byte
	Headers map[string]string
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

type Handler func(ctx context.Context, msg Message) error

// Topics maps base topic names to deployed ones.
type Topics struct {
	prefix string
}

func NewTopics(prefix string) Topics {
	return Topics{prefix: prefix}
}

func (t Topics) Name(base string) string {
	if t.prefix == "" {
		return base
	}
	return t.prefix + "." + base
}

func DeadLetterTopic(topic string) string {
	return topic + deadLetterSuffix
}

// All returns every deployed topic including dead-letter topics.
func (t Topics) All() []string {
	var out []string
	for _, base := range []string{CargoHandled, CargoMisdirected, CargoArrived, HandlingAttempted} {
		out = append(out, t.Name(base), DeadLetterTopic(t.Name(base)))
	}
	return out
}
