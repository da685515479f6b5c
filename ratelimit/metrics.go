package ratelimit

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records limiter rejections. A nil *Metrics records nothing.
type Metrics struct {
	rejections metric.Int64Counter
}

// NewMetrics creates rate limit metrics on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	rejections, err := meter.Int64Counter(
		"ratelimit.rejections",
		metric.WithDescription("Requests rejected by a limiter variant"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{rejections: rejections}, nil
}

func (m *Metrics) recordRejection(ctx context.Context, scope string) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("ratelimit.scope", scope)))
}
