package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicache/auth"
	"github.com/jonwraymond/apicache/store"
)

// ClientIP derives the network identity for anonymous limiting: the
// first hop of X-Forwarded-For when present, else the remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// AnonKey limits unauthenticated callers by network identity and skips
// authenticated ones.
func AnonKey() KeyFunc {
	return func(r *http.Request) string {
		if id := auth.IdentityFromContext(r.Context()); id != nil && !id.IsAnonymous() {
			return ""
		}
		return ClientIP(r)
	}
}

// UserKey limits authenticated callers by principal and skips anonymous
// ones.
func UserKey() KeyFunc {
	return func(r *http.Request) string {
		id := auth.IdentityFromContext(r.Context())
		if id == nil || id.IsAnonymous() {
			return ""
		}
		return "user:" + id.Principal
	}
}

// Deployment default rates.
const day = 24 * time.Hour

// NewAnonBurst limits anonymous bursts: 20/min.
func NewAnonBurst(st store.Store, logger *zap.Logger) *Limiter {
	return NewLimiter(st, Config{Scope: "anon-burst", Quota: 20, Window: time.Minute}, AnonKey(), logger)
}

// NewUserBurst limits authenticated bursts: 60/min.
func NewUserBurst(st store.Store, logger *zap.Logger) *Limiter {
	return NewLimiter(st, Config{Scope: "user-burst", Quota: 60, Window: time.Minute}, UserKey(), logger)
}

// NewAnonSustained limits sustained anonymous traffic: 500/day.
func NewAnonSustained(st store.Store, logger *zap.Logger) *Limiter {
	return NewLimiter(st, Config{Scope: "anon-sustained", Quota: 500, Window: day}, AnonKey(), logger)
}

// NewUserSustained limits sustained authenticated traffic: 2000/day.
func NewUserSustained(st store.Store, logger *zap.Logger) *Limiter {
	return NewLimiter(st, Config{Scope: "user-sustained", Quota: 2000, Window: day}, UserKey(), logger)
}

// NewAnonDefault is the general anonymous limit for endpoints outside
// the burst/sustained pairing: 40/min.
func NewAnonDefault(st store.Store, logger *zap.Logger) *Limiter {
	return NewLimiter(st, Config{Scope: "anon", Quota: 40, Window: time.Minute}, AnonKey(), logger)
}

// NewUserDefault is the general authenticated limit: 800/day.
func NewUserDefault(st store.Store, logger *zap.Logger) *Limiter {
	return NewLimiter(st, Config{Scope: "user", Quota: 800, Window: day}, UserKey(), logger)
}

// DefaultLimiters returns the deployment's standard stack: burst and
// sustained variants for both audiences.
func DefaultLimiters(st store.Store, logger *zap.Logger) []*Limiter {
	return []*Limiter{
		NewAnonBurst(st, logger),
		NewUserBurst(st, logger),
		NewAnonSustained(st, logger),
		NewUserSustained(st, logger),
	}
}
