package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/dicomquery/result"
)

// Metrics records remote call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one remote call with its duration and outcome.
	RecordCall(ctx context.Context, meta OperationMeta, duration time.Duration, outcome result.Kind)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	return newMetrics(meter)
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"remote.call.total",
		metric.WithDescription("Total number of remote calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"remote.call.errors",
		metric.WithDescription("Remote calls that ended in an application or transport error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"remote.call.duration_ms",
		metric.WithDescription("Remote call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

// RecordCall records metrics for a remote call.
func (m *metricsImpl) RecordCall(ctx context.Context, meta OperationMeta, duration time.Duration, outcome result.Kind) {
	opt := metric.WithAttributes(
		attribute.String("remote.operation", meta.Name),
		attribute.String("remote.kind", string(meta.KindOrDefault())),
		attribute.String("remote.outcome", outcome.String()),
	)

	m.totalCount.Add(ctx, 1, opt)
	if outcome != result.KindSuccess {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordCall(context.Context, OperationMeta, time.Duration, result.Kind) {}
