package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jonwraymond/dicomquery/result"
)

// Tracer wraps OpenTelemetry tracing with remote-operation span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a remote operation.
	StartSpan(ctx context.Context, meta OperationMeta, callID string) (context.Context, trace.Span)

	// EndSpan ends the span, recording the outcome.
	EndSpan(span trace.Span, res result.Result)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a client span with operation metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta OperationMeta, callID string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("remote.operation", meta.Name),
		attribute.String("remote.kind", string(meta.KindOrDefault())),
		attribute.String("remote.call_id", callID),
		attribute.Bool("remote.error", false), // updated in EndSpan
	}
	if meta.Endpoint != "" {
		attrs = append(attrs, attribute.String("remote.endpoint", meta.Endpoint))
	}
	if meta.Level != "" {
		attrs = append(attrs, attribute.String("query.level", meta.Level))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndSpan ends the span and records the outcome kind.
func (t *tracerImpl) EndSpan(span trace.Span, res result.Result) {
	span.SetAttributes(attribute.String("remote.outcome", res.Kind.String()))
	if res.OK() {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, res.Message)
		span.SetAttributes(attribute.Bool("remote.error", true))
		span.RecordError(res.Err())
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta OperationMeta, _ string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ result.Result) {
	span.End()
}
