package ratelimit

import "errors"

// Sentinel errors for rate limiting.
var (
	// ErrLimitExceeded is the rejection outcome: the identity used its
	// quota for the current window.
	ErrLimitExceeded = errors.New("ratelimit: limit exceeded")
)
