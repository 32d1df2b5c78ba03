package ports

import (
	"cargo-tracking-service/internal/domain"
	"context"
)

// Serializes writers of one cargo across goroutines and processes.
type CargoLocker interface {
	// Block until the lock for id is held or ctx is done. The returned func
	// releases it and must be called exactly once.
	Acquire(ctx context.Context, id domain.TrackingID) (release func(), err error)
}
