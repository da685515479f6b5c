package ratelimit

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicache/store"
)

// KeyFunc derives the limited identity from a request. Returning ""
// means the variant does not apply to this request and must accept it.
type KeyFunc func(r *http.Request) string

// Config configures a limiter variant.
type Config struct {
	// Scope names the variant and namespaces its stored history.
	Scope string

	// Quota is the number of requests allowed per Window.
	// Default: 60.
	Quota int

	// Window is the trailing interval the quota applies to.
	// Default: 1 minute.
	Window time.Duration
}

// Limiter is a sliding-window rate limiter. Request timestamps are kept
// per identity in the store, oldest first; entries older than the window
// are trimmed lazily before the quota comparison.
//
// The stored history is not compare-and-swapped, so concurrent bursts
// from one identity may be slightly miscounted. Store failures and
// corrupt history always fail open.
type Limiter struct {
	store   store.Store
	config  Config
	keyFunc KeyFunc
	logger  *zap.Logger
	metrics *Metrics

	// now is the clock; tests substitute it to advance the window.
	now func() time.Time
}

// NewLimiter creates a limiter variant.
func NewLimiter(st store.Store, config Config, keyFunc KeyFunc, logger *zap.Logger) *Limiter {
	// Apply defaults
	if config.Quota <= 0 {
		config.Quota = 60
	}
	if config.Window <= 0 {
		config.Window = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{
		store:   st,
		config:  config,
		keyFunc: keyFunc,
		logger:  logger,
		now:     time.Now,
	}
}

// WithMetrics attaches rejection metrics.
func (l *Limiter) WithMetrics(m *Metrics) *Limiter {
	l.metrics = m
	return l
}

// Scope returns the variant's scope name.
func (l *Limiter) Scope() string { return l.config.Scope }

// Window returns the variant's window duration.
func (l *Limiter) Window() time.Duration { return l.config.Window }

// Allow decides whether the request may proceed under this variant.
// Requests the variant does not apply to are always allowed.
func (l *Limiter) Allow(ctx context.Context, r *http.Request) bool {
	identity := l.keyFunc(r)
	if identity == "" {
		return true
	}
	key := "rl:" + l.config.Scope + ":" + identity

	now := l.now()
	history := l.fetchHistory(ctx, key)
	history = trimExpired(history, now.Add(-l.config.Window))

	if len(history) >= l.config.Quota {
		l.metrics.recordRejection(ctx, l.config.Scope)
		l.logger.Debug("rate limit exceeded",
			zap.String("scope", l.config.Scope),
			zap.String("identity", identity),
			zap.Int("quota", l.config.Quota))
		return false
	}

	history = append(history, now.UnixNano())
	l.persistHistory(ctx, key, history)
	return true
}

// fetchHistory loads the timestamp list for key. Anything unreadable
// (a store failure, non-JSON bytes, a value of the wrong shape) is
// treated as an empty window rather than failing the request.
func (l *Limiter) fetchHistory(ctx context.Context, key string) []int64 {
	raw, ok := l.store.Get(ctx, key)
	if !ok {
		return nil
	}

	var history []int64
	if err := json.Unmarshal(raw, &history); err != nil {
		l.logger.Warn("discarding corrupt rate history",
			zap.String("key", key), zap.Error(err))
		return nil
	}
	if !sort.SliceIsSorted(history, func(i, j int) bool { return history[i] < history[j] }) {
		l.logger.Warn("discarding unsorted rate history", zap.String("key", key))
		return nil
	}
	return history
}

func (l *Limiter) persistHistory(ctx context.Context, key string, history []int64) {
	raw, err := json.Marshal(history)
	if err == nil {
		// TTL >= window so the history outlives every entry it holds.
		err = l.store.Set(ctx, key, raw, l.config.Window)
	}
	if err != nil {
		l.logger.Warn("rate history store failed",
			zap.String("key", key), zap.Error(err))
	}
}

// trimExpired drops entries at or before cutoff. History is ascending,
// so the survivors are a suffix found by binary search.
func trimExpired(history []int64, cutoff time.Time) []int64 {
	c := cutoff.UnixNano()
	idx := sort.Search(len(history), func(i int) bool { return history[i] > c })
	return history[idx:]
}
