package cache

import (
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/apicache/store"
)

// WrapperConfig configures a per-route response cache.
type WrapperConfig struct {
	// Store is the key-value backend. Required.
	Store store.Store

	// Groups supplies versioned request keys. Required.
	Groups *Groups

	// Logger receives swallowed failures. Default: zap.NewNop().
	Logger *zap.Logger

	// Metrics records hits/misses/stores. Optional.
	Metrics *Metrics

	// CollapseMisses multiplexes concurrent misses for the same key onto
	// a single handler invocation.
	CollapseMisses bool
}

// Wrapper caches individual GET handlers. Each wrapped route supplies its
// own key prefix and TTL, so per-user endpoints can cache under
// user-partitioned keys at the tier that fits their churn.
//
// Caching is purely additive: a store failure on either the read or the
// write path never changes the response delivered to the current caller.
type Wrapper struct {
	store    store.Store
	groups   *Groups
	logger   *zap.Logger
	metrics  *Metrics
	collapse bool
	flight   singleflight.Group
}

// NewWrapper creates a response cache wrapper.
func NewWrapper(cfg WrapperConfig) *Wrapper {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Wrapper{
		store:    cfg.Store,
		groups:   cfg.Groups,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		collapse: cfg.CollapseMisses,
	}
}

// Wrap returns next wrapped with caching under the given key prefix and
// TTL. Non-GET requests pass through untouched. An undecodable stored
// entry is treated as a miss and recomputed.
func (c *Wrapper) Wrap(prefix string, ttl time.Duration, next http.Handler) http.Handler {
	if prefix == "" {
		prefix = "resp"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := c.groups.RequestKey(ctx, prefix, r)

		if raw, ok := c.store.Get(ctx, key); ok {
			env, err := DecodeEnvelope(raw)
			if err == nil {
				c.metrics.recordHit(ctx, prefix)
				env.WriteTo(w)
				return
			}
			c.logger.Debug("cached envelope unreadable, recomputing",
				zap.String("key", key), zap.Error(err))
		}

		c.metrics.recordMiss(ctx, prefix)

		if c.collapse {
			v, _, _ := c.flight.Do(key, func() (any, error) {
				return c.execute(prefix, key, ttl, next, r), nil
			})
			if env, ok := v.(*Envelope); ok {
				env.WriteTo(w)
				return
			}
		}

		env := c.execute(prefix, key, ttl, next, r)
		env.WriteTo(w)
	})
}

// execute invokes the handler against a recorder, stores the captured
// envelope and returns it. Store failures are logged and forgotten; the
// fresh response is unaffected.
func (c *Wrapper) execute(prefix, key string, ttl time.Duration, next http.Handler, r *http.Request) *Envelope {
	rec := newRecorder()
	next.ServeHTTP(rec, r)
	env := rec.envelope()

	if ttl > 0 {
		ctx := r.Context()
		raw, err := env.Encode()
		if err == nil {
			err = c.store.Set(ctx, key, raw, ttl)
		}
		if err != nil {
			c.logger.Warn("response cache store failed",
				zap.String("key", key), zap.Error(err))
		} else {
			c.metrics.recordStore(ctx, prefix)
		}
	}

	return env
}
