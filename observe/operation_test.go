package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/dicomquery/result"
)

func TestOperationMeta_SpanName(t *testing.T) {
	tests := []struct {
		meta OperationMeta
		want string
	}{
		{OperationMeta{Name: "qido_web_query"}, "remote.tool.qido_web_query"},
		{OperationMeta{Name: "resource://dicom_nodes", Kind: OperationResource}, "remote.resource.resource://dicom_nodes"},
	}
	for _, tt := range tests {
		if got := tt.meta.SpanName(); got != tt.want {
			t.Errorf("SpanName() = %q, want %q", got, tt.want)
		}
	}
}

func TestOperationMeta_Validate(t *testing.T) {
	if err := (OperationMeta{}).Validate(); !errors.Is(err, ErrMissingOperationName) {
		t.Errorf("expected ErrMissingOperationName, got %v", err)
	}
	if err := (OperationMeta{Name: "x"}).Validate(); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestNoopContracts_NoPanic(t *testing.T) {
	ctx := context.Background()
	meta := OperationMeta{Name: "noop"}

	tracer := newNoopTracer()
	_, span := tracer.StartSpan(ctx, meta, "id")
	tracer.EndSpan(span, result.Success(nil))

	noopMetrics{}.RecordCall(ctx, meta, time.Millisecond, result.KindTransportError)

	logger := NopLogger()
	logger.Info(ctx, "x")
	if logger.WithOperation(meta) == nil {
		t.Fatal("WithOperation should return non-nil logger")
	}
}
