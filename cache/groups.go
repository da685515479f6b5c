package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicache/store"
)

// Recognized invalidation groups. One per listing category plus a
// catch-all. The set is closed: unrecognized prefixes are unversioned.
const (
	GroupProperty = "prop"
	GroupEvent    = "event"
	GroupGlobal   = "global"
)

// GroupForPrefix maps a key prefix to its invalidation group. Returns ""
// for prefixes outside the recognized set.
func GroupForPrefix(prefix string) string {
	switch {
	case strings.HasPrefix(prefix, GroupProperty):
		return GroupProperty
	case strings.HasPrefix(prefix, GroupEvent):
		return GroupEvent
	case strings.HasPrefix(prefix, GroupGlobal):
		return GroupGlobal
	default:
		return ""
	}
}

// Groups maintains one monotonically increasing version per invalidation
// group. Bumping a group's version orphans every key that embedded the
// previous version; the orphaned entries expire through their own TTL.
//
// All failures are swallowed: a version read falls back to 1, a failed
// bump weakens invalidation promptness but never reaches the caller.
type Groups struct {
	store   store.Store
	logger  *zap.Logger
	lockTTL time.Duration
}

// NewGroups creates a version counter service on the given store.
// A nil logger defaults to zap.NewNop().
func NewGroups(st store.Store, logger *zap.Logger) *Groups {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Groups{
		store:   st,
		logger:  logger,
		lockTTL: 2 * time.Second,
	}
}

func versionKey(group string) string { return "v:" + group }

// Version returns the current version for group, defaulting to 1 when the
// counter is absent or unreadable.
func (g *Groups) Version(ctx context.Context, group string) int64 {
	raw, ok := g.store.Get(ctx, versionKey(group))
	if !ok {
		return 1
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || v < 1 {
		return 1
	}
	return v
}

// Bump increments group's version. The read-increment-write runs under a
// short advisory lock to avoid lost updates between concurrent bumpers;
// if the lock cannot be acquired the increment proceeds unlocked. Either
// way the caller never sees a failure.
func (g *Groups) Bump(ctx context.Context, group string) {
	key := versionKey(group)

	if locker, ok := g.store.(store.Locker); ok {
		unlock, err := locker.Lock(ctx, "lock:"+key, g.lockTTL)
		if err == nil {
			defer unlock(ctx)
			g.increment(ctx, key, group)
			return
		}
		g.logger.Debug("version lock unavailable, bumping unlocked",
			zap.String("group", group), zap.Error(err))
	}

	g.increment(ctx, key, group)
}

// BumpAll bumps several groups in order. Mutation handlers typically bump
// the entity's group plus the catch-all.
func (g *Groups) BumpAll(ctx context.Context, groups ...string) {
	for _, group := range groups {
		g.Bump(ctx, group)
	}
}

func (g *Groups) increment(ctx context.Context, key, group string) {
	next := g.Version(ctx, group) + 1
	if err := g.store.Set(ctx, key, []byte(strconv.FormatInt(next, 10)), 0); err != nil {
		g.logger.Warn("version bump failed",
			zap.String("group", group), zap.Error(err))
	}
}
