package store

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory Store implementation. It supports the full
// capability surface (scan, pattern delete, locking) and is the test
// double for everything built on top of the store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry

	lockMu sync.Mutex
	locks  map[string]time.Time

	// lockWait bounds how long Lock blocks for a contended key.
	lockWait time.Duration
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries:  make(map[string]*memoryEntry),
		locks:    make(map[string]time.Time),
		lockWait: 2 * time.Second,
	}
}

// Get retrieves a value. Returns (nil, false) on miss or expiry.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		// Expired - clean up lazily
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set stores a value with the given TTL. TTL<=0 stores without expiry.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := &memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Delete removes a value. Idempotent - no error on miss.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Keys returns all live keys matching the glob pattern.
func (m *Memory) Keys(_ context.Context, pattern string) ([]string, error) {
	re, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k, entry := range m.entries {
		if !entry.expiresAt.IsZero() && now.After(entry.expiresAt) {
			continue
		}
		if re.MatchString(k) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// DeletePattern removes all keys matching the glob pattern.
func (m *Memory) DeletePattern(_ context.Context, pattern string) error {
	re, err := compileGlob(pattern)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if re.MatchString(k) {
			delete(m.entries, k)
		}
	}
	return nil
}

// Lock acquires an advisory lock on key for at most ttl. Contended locks
// are retried until lockWait elapses or ctx is done.
func (m *Memory) Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error) {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	deadline := time.Now().Add(m.lockWait)

	for {
		if m.tryLock(key, ttl) {
			return func(context.Context) { m.unlock(key) }, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockHeld
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func (m *Memory) tryLock(key string, ttl time.Duration) bool {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()

	if exp, held := m.locks[key]; held && time.Now().Before(exp) {
		return false
	}
	m.locks[key] = time.Now().Add(ttl)
	return true
}

func (m *Memory) unlock(key string) {
	m.lockMu.Lock()
	delete(m.locks, key)
	m.lockMu.Unlock()
}

// Len returns the number of live entries. Intended for tests.
func (m *Memory) Len() int {
	now := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, entry := range m.entries {
		if entry.expiresAt.IsZero() || now.Before(entry.expiresAt) {
			n++
		}
	}
	return n
}

// compileGlob turns a glob pattern into an anchored regexp, with '*' as
// the only wildcard.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.Compile("^" + strings.Join(parts, ".*") + "$")
}

var (
	_ Store          = (*Memory)(nil)
	_ KeyScanner     = (*Memory)(nil)
	_ PatternDeleter = (*Memory)(nil)
	_ Locker         = (*Memory)(nil)
)
