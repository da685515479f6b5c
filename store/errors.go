package store

import "errors"

// Sentinel errors for store operations.
var (
	// ErrLockHeld is returned when a lock could not be acquired within the
	// wait bound because another holder kept it.
	ErrLockHeld = errors.New("store: lock held by another owner")

	// ErrUnavailable is returned when the backend cannot be reached.
	ErrUnavailable = errors.New("store: backend unavailable")
)
