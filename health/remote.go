package health

import (
	"context"
	"errors"
	"time"

	"github.com/jonwraymond/dicomquery/result"
)

// Pinger reaches the remote service. *remote.Invoker implements it.
type Pinger interface {
	Ping(ctx context.Context) error
	Endpoint() string
}

// RemoteCheckerConfig configures a RemoteChecker.
type RemoteCheckerConfig struct {
	// DegradedAfter marks a successful ping slower than this as degraded.
	// Default: 2s
	DegradedAfter time.Duration
}

// RemoteChecker opens a session to the remote service and pings it.
type RemoteChecker struct {
	name   string
	pinger Pinger
	config RemoteCheckerConfig
}

// NewRemoteChecker creates a RemoteChecker.
func NewRemoteChecker(name string, pinger Pinger, config RemoteCheckerConfig) *RemoteChecker {
	if config.DegradedAfter <= 0 {
		config.DegradedAfter = 2 * time.Second
	}
	return &RemoteChecker{name: name, pinger: pinger, config: config}
}

// Name returns the checker name.
func (c *RemoteChecker) Name() string { return c.name }

// Check pings the remote service.
func (c *RemoteChecker) Check(ctx context.Context) Result {
	start := time.Now()
	err := c.pinger.Ping(ctx)
	latency := time.Since(start)

	details := map[string]any{
		"endpoint":   c.pinger.Endpoint(),
		"latency_ms": float64(latency.Microseconds()) / 1000.0,
	}
	switch {
	case err != nil:
		return Unhealthy("remote service unreachable: "+err.Error(), err).WithDetails(details)
	case latency > c.config.DegradedAfter:
		return Degraded("remote service slow").WithDetails(details)
	default:
		return Healthy("remote service reachable").WithDetails(details)
	}
}

// ResultChecker checks an operation returning a result.Result. Any failure
// kind is unhealthy.
type ResultChecker struct {
	name string
	op   func(context.Context) result.Result
}

// NewResultChecker creates a ResultChecker running op.
func NewResultChecker(name string, op func(context.Context) result.Result) *ResultChecker {
	return &ResultChecker{name: name, op: op}
}

// Name returns the checker name.
func (c *ResultChecker) Name() string { return c.name }

// Check runs the operation.
func (c *ResultChecker) Check(ctx context.Context) Result {
	res := c.op(ctx)
	if res.OK() {
		return Healthy("ok")
	}
	return Unhealthy(res.Message, errors.Join(ErrCheckFailed, res.Err())).
		WithDetails(map[string]any{"outcome": res.Kind.String()})
}
