package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonwraymond/apicache/store"
)

// Invalidator deletes stored entries whose keys match glob patterns. It is
// the coarse supplement to group version bumps: bumps are the correctness
// mechanism, pattern deletion just reclaims storage sooner.
type Invalidator struct {
	store   store.Store
	logger  *zap.Logger
	metrics *Metrics
}

// NewInvalidator creates a pattern invalidator. A nil logger defaults to
// zap.NewNop().
func NewInvalidator(st store.Store, logger *zap.Logger) *Invalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{store: st, logger: logger}
}

// WithMetrics attaches invalidation metrics.
func (inv *Invalidator) WithMetrics(m *Metrics) *Invalidator {
	inv.metrics = m
	return inv
}

// InvalidatePatterns deletes all entries matching any of the glob
// patterns. Best-effort cleanup: every failure is logged and swallowed,
// nothing propagates to the mutation handler that triggered it.
//
// Stores with native pattern deletion get one call per pattern; otherwise
// keys are enumerated and deleted one by one.
func (inv *Invalidator) InvalidatePatterns(ctx context.Context, patterns []string) {
	if len(patterns) == 0 {
		return
	}
	inv.metrics.recordInvalidation(ctx, len(patterns))

	if pd, ok := inv.store.(store.PatternDeleter); ok {
		for _, pattern := range patterns {
			if err := pd.DeletePattern(ctx, pattern); err != nil {
				inv.logger.Warn("pattern delete failed",
					zap.String("pattern", pattern), zap.Error(err))
			}
		}
		return
	}

	scanner, ok := inv.store.(store.KeyScanner)
	if !ok {
		inv.logger.Warn("pattern invalidation skipped", zap.Error(ErrNoPatternSupport))
		return
	}

	for _, pattern := range patterns {
		keys, err := scanner.Keys(ctx, pattern)
		if err != nil {
			inv.logger.Warn("key scan failed",
				zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		for _, key := range keys {
			if err := inv.store.Delete(ctx, key); err != nil {
				inv.logger.Warn("key delete failed",
					zap.String("key", key), zap.Error(err))
			}
		}
	}
}
