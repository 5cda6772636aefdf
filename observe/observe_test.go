package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestConfigValidate_Valid(t *testing.T) {
	cfg := Config{
		ServiceName: "dicomquery",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"missing service name", Config{}, ErrMissingServiceName},
		{"unknown tracing exporter", Config{ServiceName: "s", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}}, ErrInvalidTracingExporter},
		{"sample pct too high", Config{ServiceName: "s", Tracing: TracingConfig{Enabled: true, SamplePct: 1.5}}, ErrInvalidSamplePct},
		{"sample pct negative", Config{ServiceName: "s", Tracing: TracingConfig{Enabled: true, SamplePct: -0.1}}, ErrInvalidSamplePct},
		{"unknown metrics exporter", Config{ServiceName: "s", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}}, ErrInvalidMetricsExporter},
		{"unknown log level", Config{ServiceName: "s", Logging: LoggingConfig{Enabled: true, Level: "trace"}}, ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "dicomquery"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil tracer, meter and logger")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown of noop observer failed: %v", err)
	}
}

func TestNewObserver_LoggingToConsoleWriter(t *testing.T) {
	var buf bytes.Buffer
	obs, err := NewObserver(context.Background(), Config{
		ServiceName:   "dicomquery",
		Logging:       LoggingConfig{Enabled: true, Level: "info"},
		ConsoleWriter: &buf,
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	obs.Logger().Info(context.Background(), "hello")
	if buf.Len() == 0 {
		t.Error("expected log output on console writer")
	}
}

func TestNewObserver_EnabledWithStdoutExporters(t *testing.T) {
	var buf bytes.Buffer
	obs, err := NewObserver(context.Background(), Config{
		ServiceName:   "dicomquery",
		Tracing:       TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:       MetricsConfig{Enabled: true, Exporter: "stdout"},
		ConsoleWriter: &buf,
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver failed: %v", err)
	}
	if mw == nil {
		t.Fatal("expected middleware")
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestMiddlewareFromObserver_Nil(t *testing.T) {
	if _, err := MiddlewareFromObserver(nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("expected ErrNilObserver, got %v", err)
	}
}
