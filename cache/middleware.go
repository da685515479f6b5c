package cache

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicache/auth"
	"github.com/jonwraymond/apicache/store"
)

// middlewarePrefix keys every entry stored by the selective middleware.
const middlewarePrefix = "mw"

// Middleware is the pipeline-level cache for anonymous GET traffic.
//
// Per request it checks, in order: method, authentication state, the
// exclude list, the include list. Anything that fails a check passes
// through untouched. Exclusion wins over inclusion, so a path matching
// both is never cached. Authenticated requests are never cached here;
// per-user caching is the Wrapper's job, under keys that embed the
// principal.
//
// Only 2xx responses are stored; errors pass through uncached.
type Middleware struct {
	store   store.Store
	groups  *Groups
	policy  Policy
	logger  *zap.Logger
	metrics *Metrics
}

// MiddlewareConfig configures the selective cache middleware.
type MiddlewareConfig struct {
	// Store is the key-value backend. Required.
	Store store.Store

	// Groups supplies versioned request keys. Required.
	Groups *Groups

	// Policy supplies the TTL and the pattern lists.
	// Zero value falls back to DefaultPolicy().
	Policy Policy

	// Logger receives swallowed failures. Default: zap.NewNop().
	Logger *zap.Logger

	// Metrics records hits/misses/bypasses. Optional.
	Metrics *Metrics
}

// NewMiddleware creates the selective cache middleware.
func NewMiddleware(cfg MiddlewareConfig) *Middleware {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if len(cfg.Policy.IncludePatterns) == 0 && len(cfg.Policy.ExcludePatterns) == 0 &&
		cfg.Policy.TTLMedium == 0 {
		cfg.Policy = DefaultPolicy()
	}
	return &Middleware{
		store:   cfg.Store,
		groups:  cfg.Groups,
		policy:  cfg.Policy,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Handler returns next wrapped with the selective caching policy.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		if id := auth.IdentityFromContext(ctx); id != nil && !id.IsAnonymous() {
			m.metrics.recordBypass(ctx, "authenticated")
			next.ServeHTTP(w, r)
			return
		}

		path := r.URL.Path
		if m.policy.excluded(path) {
			m.metrics.recordBypass(ctx, "excluded")
			next.ServeHTTP(w, r)
			return
		}
		if !m.policy.included(path) {
			m.metrics.recordBypass(ctx, "unmatched")
			next.ServeHTTP(w, r)
			return
		}

		key := m.groups.RequestKey(ctx, middlewarePrefix, r)

		if raw, ok := m.store.Get(ctx, key); ok {
			env, err := DecodeEnvelope(raw)
			if err == nil {
				m.metrics.recordHit(ctx, middlewarePrefix)
				env.WriteTo(w)
				return
			}
			m.logger.Debug("cached envelope unreadable, recomputing",
				zap.String("key", key), zap.Error(err))
		}

		m.metrics.recordMiss(ctx, middlewarePrefix)

		rec := newRecorder()
		next.ServeHTTP(rec, r)
		rec.replay(w)

		env := rec.envelope()
		if env.Status < 200 || env.Status >= 300 {
			return
		}

		raw, err := env.Encode()
		if err == nil {
			err = m.store.Set(ctx, key, raw, m.policy.middlewareTTL())
		}
		if err != nil {
			m.logger.Warn("middleware cache store failed",
				zap.String("key", key), zap.Error(err))
			return
		}
		m.metrics.recordStore(ctx, middlewarePrefix)
	})
}
