package remote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Transport names accepted by NewDialer.
const (
	TransportSSE        = "sse"
	TransportStreamable = "streamable"
)

// Dialer produces a fresh client transport for one session.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Ownership: each returned transport is used for exactly one session.
type Dialer func(ctx context.Context) (mcp.Transport, error)

// NewSSEDialer dials endpoint with the SSE transport.
// A nil httpClient uses http.DefaultClient.
func NewSSEDialer(endpoint string, httpClient *http.Client) Dialer {
	return func(context.Context) (mcp.Transport, error) {
		return &mcp.SSEClientTransport{Endpoint: endpoint, HTTPClient: httpClient}, nil
	}
}

// NewStreamableDialer dials endpoint with the streamable HTTP transport.
// A nil httpClient uses http.DefaultClient.
func NewStreamableDialer(endpoint string, httpClient *http.Client) Dialer {
	return func(context.Context) (mcp.Transport, error) {
		return &mcp.StreamableClientTransport{
			Endpoint:   endpoint,
			HTTPClient: httpClient,
			MaxRetries: -1,
		}, nil
	}
}

// NewDialer selects the dialer for transport ("sse" or "streamable").
func NewDialer(transport, endpoint string, httpClient *http.Client) (Dialer, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, ErrMissingEndpoint
	}
	switch strings.ToLower(transport) {
	case TransportSSE, "":
		return NewSSEDialer(endpoint, httpClient), nil
	case TransportStreamable:
		return NewStreamableDialer(endpoint, httpClient), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, transport)
	}
}

// NewInMemoryDialer connects every session to server in-process.
func NewInMemoryDialer(server *mcp.Server) Dialer {
	return func(ctx context.Context) (mcp.Transport, error) {
		clientT, serverT := mcp.NewInMemoryTransports()
		if _, err := server.Connect(ctx, serverT, nil); err != nil {
			return nil, fmt.Errorf("remote: in-memory server connect: %w", err)
		}
		return clientT, nil
	}
}
