package sentinel

import "errors"

// Infrastructure facts. Stores and adapters return these (optionally wrapped)
// so services can translate them into domain errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
	ErrLockNotAcquired = errors.New("lock not acquired")
)
