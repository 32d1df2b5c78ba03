package lock

import (
	"cargo-tracking-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

type keyedEntry struct {
	held chan struct{}
	refs int
}

// KeyedMutex is an in-process CargoLocker. Entries are dropped once nobody
// holds or waits for them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[domain.TrackingID]*keyedEntry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[domain.TrackingID]*keyedEntry)}
}

func (m *KeyedMutex) Acquire(ctx context.Context, id domain.TrackingID) (func(), error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if !ok {
		e = &keyedEntry{held: make(chan struct{}, 1)}
		m.entries[id] = e
	}
	e.refs++
	m.mu.Unlock()

	select {
	case e.held <- struct{}{}:
	case <-ctx.Done():
		m.unref(id, e)
		return nil, fmt.Errorf("lock cargo %s: %w", id, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.held
			m.unref(id, e)
		})
	}, nil
}

func (m *KeyedMutex) unref(id domain.TrackingID, e *keyedEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(m.entries, id)
	}
}

func (m *KeyedMutex) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
