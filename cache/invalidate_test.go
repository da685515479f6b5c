package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/apicache/store"
)

// scannerStore hides the memory store's native pattern deletion so the
// enumerate-and-delete fallback is exercised.
type scannerStore struct {
	inner *store.Memory
}

func (s scannerStore) Get(ctx context.Context, key string) ([]byte, bool) {
	return s.inner.Get(ctx, key)
}
func (s scannerStore) Set(ctx context.Context, key string, v []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, key, v, ttl)
}
func (s scannerStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
func (s scannerStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	return s.inner.Keys(ctx, pattern)
}

// TestInvalidator_NativePatternDelete verifies delegation to stores with
// native pattern deletion.
func TestInvalidator_NativePatternDelete(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	_ = st.Set(ctx, "prop:list:v1:anon:/a?", []byte("x"), time.Hour)
	_ = st.Set(ctx, "prop:detail:v1:anon:/b?", []byte("y"), time.Hour)
	_ = st.Set(ctx, "event:detail:v1:anon:/c?", []byte("z"), time.Hour)

	inv := NewInvalidator(st, nil)
	inv.InvalidatePatterns(ctx, []string{"prop:*"})

	if _, ok := st.Get(ctx, "prop:list:v1:anon:/a?"); ok {
		t.Error("prop:list entry should be gone")
	}
	if _, ok := st.Get(ctx, "event:detail:v1:anon:/c?"); !ok {
		t.Error("event entry should survive")
	}
}

// TestInvalidator_ScanFallback verifies scan-and-delete on stores
// without native pattern deletion.
func TestInvalidator_ScanFallback(t *testing.T) {
	mem := store.NewMemory()
	st := scannerStore{inner: mem}
	ctx := context.Background()

	_ = st.Set(ctx, "prop:1", []byte("a"), time.Hour)
	_ = st.Set(ctx, "prop:2", []byte("b"), time.Hour)
	_ = st.Set(ctx, "event:1", []byte("c"), time.Hour)

	inv := NewInvalidator(st, nil)
	inv.InvalidatePatterns(ctx, []string{"prop:*", "booking:*"})

	if _, ok := st.Get(ctx, "prop:1"); ok {
		t.Error("prop:1 should be gone")
	}
	if _, ok := st.Get(ctx, "prop:2"); ok {
		t.Error("prop:2 should be gone")
	}
	if _, ok := st.Get(ctx, "event:1"); !ok {
		t.Error("event:1 should survive")
	}
}

// TestInvalidator_NoSupport verifies a bare store degrades to a logged
// no-op instead of failing the caller.
func TestInvalidator_NoSupport(t *testing.T) {
	inv := NewInvalidator(failStore{}, nil)
	// Must not panic or propagate anything.
	inv.InvalidatePatterns(context.Background(), []string{"prop:*"})
}

// TestInvalidator_EmptyPatterns verifies the no-op short circuit.
func TestInvalidator_EmptyPatterns(t *testing.T) {
	inv := NewInvalidator(store.NewMemory(), nil)
	inv.InvalidatePatterns(context.Background(), nil)
}
