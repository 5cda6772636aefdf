package observe

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/dicomquery/result"
)

// InvokeFunc is the signature for remote operation functions.
// This is the standard function signature that Middleware wraps.
type InvokeFunc func(ctx context.Context, meta OperationMeta, params map[string]any) result.Result

// Middleware wraps remote calls with observability (tracing, metrics,
// logging, trace records).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe InvokeFunc.
//   - Context: Propagates context through tracing spans.
//   - Results: The wrapped function's result is returned unchanged.
//   - Ownership: Params are snapshotted, never modified.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
	sinks   []RecordSink
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithSink delivers every trace record to sink.
func WithSink(sink RecordSink) MiddlewareOption {
	return func(m *Middleware) {
		if sink != nil {
			m.sinks = append(m.sinks, sink)
		}
	}
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger, opts ...MiddlewareOption) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	m := &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewNopMiddleware returns a Middleware that only feeds the given sinks.
func NewNopMiddleware(opts ...MiddlewareOption) *Middleware {
	return NewMiddleware(nil, nil, nil, opts...)
}

// Wrap wraps an InvokeFunc with tracing, metrics, logging and trace records.
func (m *Middleware) Wrap(fn InvokeFunc) InvokeFunc {
	return func(ctx context.Context, meta OperationMeta, params map[string]any) result.Result {
		callID := uuid.NewString()
		ctx, span := m.tracer.StartSpan(ctx, meta, callID)

		start := time.Now()
		res := fn(ctx, meta, params)
		duration := time.Since(start)

		m.tracer.EndSpan(span, res)
		m.metrics.RecordCall(ctx, meta, duration, res.Kind)

		rec := Record{
			CallID:    callID,
			Operation: meta,
			Params:    Snapshot(params),
			Outcome:   res.Kind,
			Started:   start,
			Duration:  duration,
		}
		if !res.OK() {
			rec.Message = res.Message
		}

		m.log(ctx, rec)
		m.emit(rec)
		return res
	}
}

func (m *Middleware) log(ctx context.Context, rec Record) {
	opLogger := m.logger.WithOperation(rec.Operation)
	fields := []Field{
		{Key: "call_id", Value: rec.CallID},
		{Key: "params", Value: rec.Params},
		{Key: "outcome", Value: rec.Outcome.String()},
		{Key: "duration_ms", Value: float64(rec.Duration.Microseconds()) / 1000.0},
	}

	switch rec.Outcome {
	case result.KindSuccess:
		opLogger.Info(ctx, "remote call completed", fields...)
	case result.KindApplicationError:
		fields = append(fields, Field{Key: "error", Value: rec.Message})
		opLogger.Warn(ctx, "remote call reported an error", fields...)
	default:
		fields = append(fields, Field{Key: "error", Value: rec.Message})
		opLogger.Error(ctx, "remote call failed", fields...)
	}
}

// emit delivers rec to every sink. A panicking sink is skipped.
func (m *Middleware) emit(rec Record) {
	for _, sink := range m.sinks {
		func() {
			defer func() { _ = recover() }()
			sink.Record(rec)
		}()
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer, opts ...MiddlewareOption) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger(), opts...), nil
}
