package remote

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dicomquery/observe"
	"github.com/jonwraymond/dicomquery/result"
)

// Default client identity announced during session initialization.
const (
	DefaultClientName    = "dicomquery"
	DefaultClientVersion = "1.0.0"
)

// Invoker executes remote operations, one session per call.
//
// Contract:
// - Concurrency: safe for concurrent use; calls share no session state.
// - Errors: never returns a Go error or panics; every outcome is a Result.
// - Cleanup: the session is closed on every exit path.
type Invoker struct {
	dial     Dialer
	client   *mcp.Client
	endpoint string
	mw       *observe.Middleware
	call     observe.InvokeFunc
	limiter  *SessionLimiter
}

// Option configures an Invoker.
type Option func(*Invoker)

// WithMiddleware traces, measures and logs every call through mw.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(i *Invoker) {
		if mw != nil {
			i.mw = mw
		}
	}
}

// WithEndpoint labels telemetry with the remote endpoint.
func WithEndpoint(endpoint string) Option {
	return func(i *Invoker) {
		i.endpoint = endpoint
	}
}

// WithClientInfo overrides the implementation name and version sent to the
// remote service.
func WithClientInfo(name, version string) Option {
	return func(i *Invoker) {
		i.client = mcp.NewClient(&mcp.Implementation{Name: name, Version: version}, nil)
	}
}

// WithMaxSessions caps the number of sessions open at once. Calls beyond
// the cap wait for a free slot. Zero or less means no cap.
func WithMaxSessions(n int) Option {
	return func(i *Invoker) {
		i.limiter = NewSessionLimiter(n)
	}
}

// NewInvoker creates an Invoker that opens sessions with dial.
func NewInvoker(dial Dialer, opts ...Option) (*Invoker, error) {
	if dial == nil {
		return nil, ErrNilDialer
	}
	i := &Invoker{
		dial:   dial,
		client: mcp.NewClient(&mcp.Implementation{Name: DefaultClientName, Version: DefaultClientVersion}, nil),
		mw:     observe.NewNopMiddleware(),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.call = i.mw.Wrap(i.dispatch)
	return i, nil
}

// Endpoint returns the endpoint label, possibly empty.
func (i *Invoker) Endpoint() string {
	return i.endpoint
}

// Invoke calls the named tool with params.
func (i *Invoker) Invoke(ctx context.Context, operation string, params map[string]any) result.Result {
	return i.InvokeOperation(ctx, observe.OperationMeta{Name: operation}, params)
}

// InvokeOperation calls the tool named by meta. Level and other metadata
// only label telemetry.
func (i *Invoker) InvokeOperation(ctx context.Context, meta observe.OperationMeta, params map[string]any) result.Result {
	meta.Kind = observe.OperationTool
	if meta.Endpoint == "" {
		meta.Endpoint = i.endpoint
	}
	return i.call(ctx, meta, params)
}

// ReadResource reads the resource at uri and JSON-decodes its first content.
func (i *Invoker) ReadResource(ctx context.Context, uri string) result.Result {
	meta := observe.OperationMeta{Name: uri, Kind: observe.OperationResource, Endpoint: i.endpoint}
	return i.call(ctx, meta, nil)
}

// Ping opens a session, pings the remote service and closes the session.
func (i *Invoker) Ping(ctx context.Context) error {
	cs, done, err := i.connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := cs.Ping(ctx, nil); err != nil {
		return fmt.Errorf("remote: ping: %w", err)
	}
	return nil
}

func (i *Invoker) dispatch(ctx context.Context, meta observe.OperationMeta, params map[string]any) result.Result {
	if err := meta.Validate(); err != nil {
		return result.Transport(err)
	}
	if meta.KindOrDefault() == observe.OperationResource {
		return i.readResource(ctx, meta.Name)
	}
	return i.callTool(ctx, meta.Name, params)
}

// connect opens a session. The returned done func closes it and frees its
// limiter slot.
func (i *Invoker) connect(ctx context.Context) (*mcp.ClientSession, func(), error) {
	if err := i.limiter.Acquire(ctx); err != nil {
		return nil, nil, fmt.Errorf("remote: waiting for session slot: %w", err)
	}
	transport, err := i.dial(ctx)
	if err != nil {
		i.limiter.Release()
		return nil, nil, fmt.Errorf("remote: dial: %w", err)
	}
	cs, err := i.client.Connect(ctx, transport, nil)
	if err != nil {
		i.limiter.Release()
		return nil, nil, fmt.Errorf("remote: connect: %w", err)
	}
	return cs, func() {
		_ = cs.Close()
		i.limiter.Release()
	}, nil
}

// SessionStats reports session limiter activity. It is zero when no cap is
// configured.
func (i *Invoker) SessionStats() LimiterStats {
	return i.limiter.Stats()
}

func (i *Invoker) callTool(ctx context.Context, name string, params map[string]any) result.Result {
	cs, done, err := i.connect(ctx)
	if err != nil {
		return result.Transport(err)
	}
	defer done()

	if params == nil {
		params = map[string]any{}
	}
	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: name, Arguments: params})
	if err != nil {
		return classifyCallError(err, fmt.Errorf("remote: call %s: %w", name, err))
	}
	return classifyTool(res)
}

func (i *Invoker) readResource(ctx context.Context, uri string) result.Result {
	cs, done, err := i.connect(ctx)
	if err != nil {
		return result.Transport(err)
	}
	defer done()

	res, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return classifyCallError(err, fmt.Errorf("remote: read %s: %w", uri, err))
	}
	return classifyResource(uri, res)
}
