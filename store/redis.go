package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig configures the Redis-backed store.
type RedisConfig struct {
	Addr     string
	DB       int
	Password string

	// OpTimeout bounds every individual Redis call.
	// Default: 2 seconds.
	OpTimeout time.Duration

	// LockWait bounds how long Lock blocks for a contended key.
	// Default: 2 seconds.
	LockWait time.Duration
}

// Redis is a Store backed by a Redis server. All calls run under a bounded
// operation timeout; Get reports any failure as a miss.
type Redis struct {
	client    *redis.Client
	opTimeout time.Duration
	lockWait  time.Duration
	logger    *zap.Logger
}

// NewRedis creates a Redis store and verifies connectivity.
func NewRedis(cfg RedisConfig, logger *zap.Logger) (*Redis, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = 2 * time.Second
	}
	if cfg.LockWait <= 0 {
		cfg.LockWait = 2 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.OpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Redis{
		client:    client,
		opTimeout: cfg.OpTimeout,
		lockWait:  cfg.LockWait,
		logger:    logger,
	}, nil
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

// Get retrieves a value. A missing key, a timeout and a backend error all
// report (nil, false); failures are logged, never surfaced.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return b, true
}

// Set stores a value with the given TTL. TTL<=0 stores without expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("store: set %q: %w", key, err)
	}
	return nil
}

// Delete removes a value. Idempotent - no error on miss.
func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("store: del %q: %w", key, err)
	}
	return nil
}

// Keys returns all keys matching the glob pattern using SCAN, so large
// keyspaces never block the server the way KEYS would.
func (r *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("store: scan %q: %w", pattern, err)
	}
	return keys, nil
}

// DeletePattern removes all keys matching the glob pattern, scanning and
// deleting in batches.
func (r *Redis) DeletePattern(ctx context.Context, pattern string) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	iter := r.client.Scan(ctx, 0, pattern, 0).Iterator()
	batch := make([]string, 0, 128)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("store: del pattern %q: %w", pattern, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("store: scan %q: %w", pattern, err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("store: del pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Lock acquires an advisory lock via SET NX with a per-owner token.
// Contended locks are retried until LockWait elapses or ctx is done.
//
// Unlock reads the token back before deleting, so an expired lock that was
// re-acquired by another owner is never released by mistake. The read and
// the delete are not atomic.
func (r *Redis) Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error) {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	token := uuid.NewString()
	deadline := time.Now().Add(r.lockWait)

	for {
		opCtx, cancel := r.bound(ctx)
		ok, err := r.client.SetNX(opCtx, key, token, ttl).Result()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("store: lock %q: %w", key, err)
		}
		if ok {
			return func(ctx context.Context) { r.release(ctx, key, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockHeld
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func (r *Redis) release(ctx context.Context, key, token string) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	current, err := r.client.Get(ctx, key).Result()
	if err != nil || current != token {
		return
	}
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("redis unlock failed", zap.String("key", key), zap.Error(err))
	}
}

var (
	_ Store          = (*Redis)(nil)
	_ KeyScanner     = (*Redis)(nil)
	_ PatternDeleter = (*Redis)(nil)
	_ Locker         = (*Redis)(nil)
)
