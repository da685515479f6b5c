package cache

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// TestMetrics_HitCounter verifies cache.response.hits increments.
func TestMetrics_HitCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	m.recordHit(context.Background(), "prop:list")
	m.recordHit(context.Background(), "prop:list")

	found := collectMetric(t, reader, "cache.response.hits")
	if found == nil {
		t.Fatal("cache.response.hits not found")
	}
	sum, ok := found.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("expected Sum[int64], got %T", found.Data)
	}
	if len(sum.DataPoints) == 0 || sum.DataPoints[0].Value != 2 {
		t.Errorf("hit count = %+v, want 2", sum.DataPoints)
	}
}

// TestMetrics_NilRecordsNothing verifies a nil *Metrics is safe.
func TestMetrics_NilRecordsNothing(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.recordHit(ctx, "p")
	m.recordMiss(ctx, "p")
	m.recordStore(ctx, "p")
	m.recordBypass(ctx, "authenticated")
	m.recordInvalidation(ctx, 3)
}
