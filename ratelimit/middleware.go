package ratelimit

import (
	"net/http"
	"strconv"
)

// Middleware gates requests behind a set of limiter variants. All must
// accept for the request to proceed; any rejection answers 429 with a
// Retry-After hint of the rejecting variant's window.
func Middleware(limiters ...*Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			for _, l := range limiters {
				if !l.Allow(ctx, r) {
					w.Header().Set("Retry-After", strconv.Itoa(int(l.Window().Seconds())))
					http.Error(w, ErrLimitExceeded.Error(), http.StatusTooManyRequests)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
