package cache

import "errors"

var (
	// ErrNotFound is returned when a lookup or pop finds no entry.
	ErrNotFound = errors.New("not found")
	// ErrLockContention is returned when another caller holds the lock.
	// Nothing was changed; the call may be retried.
	ErrLockContention = errors.New("lock contention")
	// ErrReleased is returned when a handle is used after Release.
	ErrReleased = errors.New("cache handle released")
)
