package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/dicomquery/internal/pacstest"
	"github.com/jonwraymond/dicomquery/observe"
	"github.com/jonwraymond/dicomquery/result"
)

func newTestInvoker(t *testing.T, opts ...Option) (*Invoker, *pacstest.Server) {
	t.Helper()
	srv := pacstest.New()
	inv, err := NewInvoker(NewInMemoryDialer(srv.MCP), opts...)
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}
	return inv, srv
}

func TestNewInvoker_NilDialer(t *testing.T) {
	if _, err := NewInvoker(nil); !errors.Is(err, ErrNilDialer) {
		t.Errorf("expected ErrNilDialer, got %v", err)
	}
}

func TestInvoke_Success(t *testing.T) {
	inv, srv := newTestInvoker(t)

	res := inv.Invoke(context.Background(), pacstest.QueryTool, map[string]any{
		"query_level":  "studies",
		"query_params": map[string]any{"PatientID": pacstest.PatientJane},
	})
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}

	rows, ok := res.Data.([]any)
	if !ok {
		t.Fatalf("expected []any data, got %T", res.Data)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 studies, got %d", len(rows))
	}
	if srv.Calls(pacstest.QueryTool) != 1 {
		t.Errorf("expected 1 remote call, got %d", srv.Calls(pacstest.QueryTool))
	}
}

func TestInvoke_ApplicationError(t *testing.T) {
	inv, _ := newTestInvoker(t)

	res := inv.Invoke(context.Background(), pacstest.QueryTool, map[string]any{
		"query_level":  "studies/9.9.9/series",
		"query_params": map[string]any{},
	})
	if res.Kind != result.KindApplicationError {
		t.Fatalf("expected application error, got %+v", res)
	}
	if !strings.Contains(res.Message, "study 9.9.9 not found") {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestInvoke_ErrorResponseIsApplicationError(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		params   map[string]any
		wantText string
	}{
		{
			name:     "unknown tool",
			tool:     "no_such_tool",
			wantText: `unknown tool "no_such_tool"`,
		},
		{
			name:     "malformed filter",
			tool:     pacstest.QueryTool,
			params:   map[string]any{"query_level": "studies", "query_params": "not-a-map"},
			wantText: "invalid params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := observe.NewMemorySink()
			inv, srv := newTestInvoker(t, WithMiddleware(observe.NewNopMiddleware(observe.WithSink(sink))))

			res := inv.Invoke(context.Background(), tt.tool, tt.params)
			if res.Kind != result.KindApplicationError {
				t.Fatalf("expected application error, got %+v", res)
			}
			if !strings.Contains(res.Message, tt.wantText) {
				t.Errorf("message %q does not contain %q", res.Message, tt.wantText)
			}
			if srv.Calls(pacstest.QueryTool) != 0 {
				t.Errorf("handler should not run, ran %d times", srv.Calls(pacstest.QueryTool))
			}

			recs := sink.Records()
			if len(recs) != 1 || recs[0].Outcome != result.KindApplicationError {
				t.Errorf("expected one application_error record, got %+v", recs)
			}
		})
	}
}

func TestReadResource_UnknownURIIsApplicationError(t *testing.T) {
	inv, _ := newTestInvoker(t)

	res := inv.ReadResource(context.Background(), "resource://no_such_resource")
	if res.Kind != result.KindApplicationError {
		t.Fatalf("expected application error, got %+v", res)
	}
}

func TestInvoke_CanceledContextIsTransportError(t *testing.T) {
	inv, _ := newTestInvoker(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := inv.Invoke(ctx, pacstest.QueryTool, nil)
	if res.Kind != result.KindTransportError {
		t.Errorf("expected transport error, got %+v", res)
	}
}

func TestInvoke_DialFailure(t *testing.T) {
	dialErr := errors.New("no route to host")
	inv, err := NewInvoker(func(context.Context) (mcp.Transport, error) {
		return nil, dialErr
	})
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}

	res := inv.Invoke(context.Background(), pacstest.QueryTool, nil)
	if res.Kind != result.KindTransportError || !strings.Contains(res.Message, "no route to host") {
		t.Errorf("expected transport error carrying dial failure, got %+v", res)
	}
}

func TestInvoke_UnreachableEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	endpoint := ts.URL + "/sse"
	ts.Close()

	for _, transport := range []string{TransportSSE, TransportStreamable} {
		t.Run(transport, func(t *testing.T) {
			dial, err := NewDialer(transport, endpoint, nil)
			if err != nil {
				t.Fatalf("NewDialer failed: %v", err)
			}
			inv, err := NewInvoker(dial, WithEndpoint(endpoint))
			if err != nil {
				t.Fatalf("NewInvoker failed: %v", err)
			}

			res := inv.Invoke(context.Background(), pacstest.QueryTool, nil)
			if res.Kind != result.KindTransportError {
				t.Errorf("expected transport error, got %+v", res)
			}
		})
	}
}

func TestInvoke_OneSessionPerCall(t *testing.T) {
	srv := pacstest.New()
	base := NewInMemoryDialer(srv.MCP)
	var dials atomic.Int32
	inv, err := NewInvoker(func(ctx context.Context) (mcp.Transport, error) {
		dials.Add(1)
		return base(ctx)
	})
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}

	params := map[string]any{"query_level": "patients", "query_params": map[string]any{}}
	for i := 0; i < 3; i++ {
		if res := inv.Invoke(context.Background(), pacstest.QueryTool, params); !res.OK() {
			t.Fatalf("call %d failed: %+v", i, res)
		}
	}
	if got := dials.Load(); got != 3 {
		t.Errorf("expected 3 sessions, got %d", got)
	}
}

func TestReadResource(t *testing.T) {
	inv, srv := newTestInvoker(t)

	res := inv.ReadResource(context.Background(), pacstest.NodesResourceURI)
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	data, ok := res.Data.(map[string]any)
	if !ok || data["current_node"] != "orthanc" {
		t.Errorf("unexpected data: %#v", res.Data)
	}

	srv.SetNodesText("not json")
	res = inv.ReadResource(context.Background(), pacstest.NodesResourceURI)
	if res.Kind != result.KindTransportError {
		t.Errorf("expected transport error for undecodable text, got %+v", res)
	}

	res = inv.ReadResource(context.Background(), "resource://missing")
	if res.Kind != result.KindTransportError {
		t.Errorf("expected transport error for unknown resource, got %+v", res)
	}
}

func TestInvoke_EmitsRecords(t *testing.T) {
	sink := observe.NewMemorySink()
	inv, _ := newTestInvoker(t,
		WithMiddleware(observe.NewNopMiddleware(observe.WithSink(sink))),
		WithEndpoint("inmem://pacs"),
	)

	inv.InvokeOperation(context.Background(),
		observe.OperationMeta{Name: pacstest.QueryTool, Level: "patients"},
		map[string]any{"query_level": "patients", "query_params": map[string]any{}},
	)
	inv.ReadResource(context.Background(), pacstest.NodesResourceURI)

	recs := sink.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Operation.Kind != observe.OperationTool || recs[0].Operation.Level != "patients" {
		t.Errorf("unexpected tool record: %+v", recs[0].Operation)
	}
	if recs[1].Operation.Kind != observe.OperationResource || recs[1].Operation.Name != pacstest.NodesResourceURI {
		t.Errorf("unexpected resource record: %+v", recs[1].Operation)
	}
	for _, rec := range recs {
		if rec.Operation.Endpoint != "inmem://pacs" || rec.Outcome != result.KindSuccess {
			t.Errorf("unexpected record: %+v", rec)
		}
	}
}

func TestPing(t *testing.T) {
	inv, _ := newTestInvoker(t)
	if err := inv.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	failing, _ := NewInvoker(func(context.Context) (mcp.Transport, error) {
		return nil, errors.New("refused")
	})
	if err := failing.Ping(context.Background()); err == nil {
		t.Error("expected ping error")
	}
}

func TestInvoke_WrappedStructuredResult(t *testing.T) {
	type wrapped struct {
		Result []string `json:"result"`
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "wrapping", Version: "0.0.1"}, nil)
	mcp.AddTool(server, &mcp.Tool{Name: "list_uids"}, func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, wrapped, error) {
		return nil, wrapped{Result: []string{"1.2.3", "1.2.4"}}, nil
	})

	inv, err := NewInvoker(NewInMemoryDialer(server))
	if err != nil {
		t.Fatalf("NewInvoker failed: %v", err)
	}

	res := inv.Invoke(context.Background(), "list_uids", nil)
	if !res.OK() {
		t.Fatalf("expected success, got %+v", res)
	}
	uids, ok := res.Data.([]any)
	if !ok || len(uids) != 2 || uids[0] != "1.2.3" {
		t.Errorf("expected unwrapped uid list, got %#v", res.Data)
	}
}
