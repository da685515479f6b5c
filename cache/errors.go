package cache

import "errors"

// Sentinel errors for cache operations.
var (
	// ErrCorruptEnvelope is returned when a stored value does not decode
	// to a response envelope. Call sites treat it as a miss.
	ErrCorruptEnvelope = errors.New("cache: corrupt envelope")

	// ErrNoPatternSupport is returned when the store supports neither
	// native pattern deletion nor key scanning.
	ErrNoPatternSupport = errors.New("cache: store cannot invalidate patterns")
)
