package store

import (
	"context"
	"os"
	"testing"
	"time"
)

// redisForTest connects to the server named by APICACHE_TEST_REDIS, or
// skips the test when the variable is unset.
func redisForTest(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("APICACHE_TEST_REDIS")
	if addr == "" {
		t.Skip("APICACHE_TEST_REDIS not set")
	}

	r, err := NewRedis(RedisConfig{Addr: addr, DB: 15}, nil)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	t.Cleanup(func() {
		_ = r.DeletePattern(context.Background(), "apicache-test:*")
		_ = r.Close()
	})
	return r
}

// TestRedis_RoundTrip verifies get/set/delete against a live server.
func TestRedis_RoundTrip(t *testing.T) {
	r := redisForTest(t)
	ctx := context.Background()

	if _, ok := r.Get(ctx, "apicache-test:missing"); ok {
		t.Fatal("expected miss")
	}

	if err := r.Set(ctx, "apicache-test:k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok := r.Get(ctx, "apicache-test:k")
	if !ok || string(got) != "v" {
		t.Fatalf("Get = (%q, %v), want (v, true)", got, ok)
	}

	if err := r.Delete(ctx, "apicache-test:k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := r.Get(ctx, "apicache-test:k"); ok {
		t.Error("expected miss after delete")
	}
}

// TestRedis_DeletePattern verifies SCAN-based pattern deletion.
func TestRedis_DeletePattern(t *testing.T) {
	r := redisForTest(t)
	ctx := context.Background()

	_ = r.Set(ctx, "apicache-test:prop:1", []byte("a"), time.Minute)
	_ = r.Set(ctx, "apicache-test:prop:2", []byte("b"), time.Minute)
	_ = r.Set(ctx, "apicache-test:event:1", []byte("c"), time.Minute)

	if err := r.DeletePattern(ctx, "apicache-test:prop:*"); err != nil {
		t.Fatalf("DeletePattern failed: %v", err)
	}

	if _, ok := r.Get(ctx, "apicache-test:prop:1"); ok {
		t.Error("prop:1 should be gone")
	}
	if _, ok := r.Get(ctx, "apicache-test:event:1"); !ok {
		t.Error("event:1 should survive")
	}
}

// TestRedis_Lock verifies SET NX lock acquisition and release.
func TestRedis_Lock(t *testing.T) {
	r := redisForTest(t)
	r.lockWait = 100 * time.Millisecond
	ctx := context.Background()

	unlock, err := r.Lock(ctx, "apicache-test:lock", time.Second)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	if _, err := r.Lock(ctx, "apicache-test:lock", time.Second); err == nil {
		t.Error("contended Lock should fail")
	}

	unlock(ctx)

	unlock2, err := r.Lock(ctx, "apicache-test:lock", time.Second)
	if err != nil {
		t.Fatalf("Lock after release failed: %v", err)
	}
	unlock2(ctx)
}
