package messaging

import (
	"cargo-tracking-service/internal/platform/logger"
	"context"
	"sync"
)

// MemoryBus is an in-process transport used when no broker is configured.
// Publish never blocks; messages are lost when the process exits.
type MemoryBus struct {
	mu     sync.Mutex
	queue  []Message
	notify chan struct{}
	// dead-lettered messages are kept for inspection
	dead []Message
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{notify: make(chan struct{}, 1)}
}

func (b *MemoryBus) Publish(_ context.Context, msg Message) error {
	b.mu.Lock()
	b.queue = append(b.queue, msg)
	b.mu.Unlock()
	b.signal()
	return nil
}

// DeadLetters is a Publisher that parks messages on the bus without
// delivering them.
func (b *MemoryBus) DeadLetters() Publisher {
	return deadLetterSink{bus: b}
}

type deadLetterSink struct{ bus *MemoryBus }

func (s deadLetterSink) Publish(_ context.Context, msg Message) error {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	s.bus.dead = append(s.bus.dead, msg)
	return nil
}

func (b *MemoryBus) DeadLettered() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Message, len(b.dead))
	copy(out, b.dead)
	return out
}

func (b *MemoryBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

func (b *MemoryBus) signal() {
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

func (b *MemoryBus) pop() (Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return Message{}, false
	}
	msg := b.queue[0]
	b.queue = b.queue[1:]
	if len(b.queue) > 0 {
		b.signal()
	}
	return msg, true
}

// Run delivers messages to d with the given number of workers until ctx is
// done. A message whose dispatch fails is requeued.
func (b *MemoryBus) Run(ctx context.Context, d *Dispatcher, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}
	log := logger.FromContext(ctx)

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				msg, ok := b.pop()
				if !ok {
					select {
					case <-ctx.Done():
						return
					case <-b.notify:
						continue
					}
				}
				if err := d.Dispatch(ctx, msg); err != nil {
					log.Warn("memory bus dispatch failed, requeueing", "topic", msg.Topic, "key", msg.Key, "err", err)
					_ = b.Publish(ctx, msg)
				}
			}
		}()
	}
	wg.Wait()
	return nil
}
