package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonwraymond/apicache/store"
)

// TestMiddleware_AllowsWithinQuota verifies requests under quota reach
// the handler.
func TestMiddleware_AllowsWithinQuota(t *testing.T) {
	l := NewLimiter(store.NewMemory(), Config{Scope: "test", Quota: 5, Window: time.Minute}, fixedKey, nil)
	var served int
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, anonRequest())
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, rec.Code)
		}
	}
	if served != 3 {
		t.Errorf("handler served %d requests, want 3", served)
	}
}

// TestMiddleware_RejectsOverQuota verifies the 429 outcome and the
// Retry-After hint.
func TestMiddleware_RejectsOverQuota(t *testing.T) {
	l := NewLimiter(store.NewMemory(), Config{Scope: "test", Quota: 1, Window: time.Minute}, fixedKey, nil)
	var served int
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
	}))

	h.ServeHTTP(httptest.NewRecorder(), anonRequest())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, anonRequest())

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", rec.Header().Get("Retry-After"))
	}
	if served != 1 {
		t.Errorf("handler served %d requests, want 1", served)
	}
}

// TestMiddleware_AllVariantsMustAccept verifies any rejecting variant
// blocks the request even when others accept.
func TestMiddleware_AllVariantsMustAccept(t *testing.T) {
	st := store.NewMemory()
	loose := NewLimiter(st, Config{Scope: "loose", Quota: 100, Window: time.Minute}, fixedKey, nil)
	strict := NewLimiter(st, Config{Scope: "strict", Quota: 1, Window: time.Minute}, fixedKey, nil)

	h := Middleware(loose, strict)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), anonRequest())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, anonRequest())

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 from the strict variant", rec.Code)
	}
}
