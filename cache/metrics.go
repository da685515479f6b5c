package cache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache outcomes. A nil *Metrics is valid and records
// nothing, so instrumentation stays optional.
type Metrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	stores        metric.Int64Counter
	bypasses      metric.Int64Counter
	invalidations metric.Int64Counter
}

// NewMetrics creates cache metrics on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	hits, err := meter.Int64Counter(
		"cache.response.hits",
		metric.WithDescription("Responses served from cache"),
		metric.WithUnit("{response}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"cache.response.misses",
		metric.WithDescription("Requests that fell through to the handler"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	stores, err := meter.Int64Counter(
		"cache.response.stores",
		metric.WithDescription("Envelopes written to the store"),
		metric.WithUnit("{envelope}"),
	)
	if err != nil {
		return nil, err
	}

	bypasses, err := meter.Int64Counter(
		"cache.response.bypasses",
		metric.WithDescription("Requests the caching policy passed through"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	invalidations, err := meter.Int64Counter(
		"cache.invalidations",
		metric.WithDescription("Pattern invalidation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		hits:          hits,
		misses:        misses,
		stores:        stores,
		bypasses:      bypasses,
		invalidations: invalidations,
	}, nil
}

func prefixAttr(prefix string) metric.AddOption {
	return metric.WithAttributes(attribute.String("cache.prefix", prefix))
}

func (m *Metrics) recordHit(ctx context.Context, prefix string) {
	if m == nil {
		return
	}
	m.hits.Add(ctx, 1, prefixAttr(prefix))
}

func (m *Metrics) recordMiss(ctx context.Context, prefix string) {
	if m == nil {
		return
	}
	m.misses.Add(ctx, 1, prefixAttr(prefix))
}

func (m *Metrics) recordStore(ctx context.Context, prefix string) {
	if m == nil {
		return
	}
	m.stores.Add(ctx, 1, prefixAttr(prefix))
}

func (m *Metrics) recordBypass(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.bypasses.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.bypass_reason", reason)))
}

func (m *Metrics) recordInvalidation(ctx context.Context, patterns int) {
	if m == nil {
		return
	}
	m.invalidations.Add(ctx, 1, metric.WithAttributes(attribute.Int("cache.patterns", patterns)))
}
