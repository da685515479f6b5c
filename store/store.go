package store

import (
	"context"
	"time"
)

// Store is the interface all caching components run against.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: every call must return within a bounded time; implementations
//   backed by a network apply their own operation timeout.
// - Errors: Get never errors; a miss, an expired entry and a backend failure
//   all report (nil, false). Callers that need to distinguish cannot; the
//   cache is best-effort.
type Store interface {
	// Get retrieves a value. Returns (nil, false) on miss or failure.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value with the given TTL. TTL<=0 means the entry does
	// not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value. Idempotent - no error on miss.
	Delete(ctx context.Context, key string) error
}

// KeyScanner is implemented by stores that can enumerate keys matching a
// glob pattern ('*' matches any run of characters).
type KeyScanner interface {
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// PatternDeleter is implemented by stores with native pattern deletion.
// Stores lacking it can still be pattern-invalidated through KeyScanner.
type PatternDeleter interface {
	DeletePattern(ctx context.Context, pattern string) error
}

// UnlockFunc releases a lock acquired via Locker.Lock. Safe to call once;
// releasing an already-expired lock is a no-op.
type UnlockFunc func(ctx context.Context)

// Locker is implemented by stores that support short-lived advisory locks.
//
// Lock blocks until the lock is acquired, the wait bound is exceeded, or
// ctx is done. The returned UnlockFunc must be called to release early;
// otherwise the lock expires after ttl.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
