package remote

import "errors"

// Sentinel errors for the remote package.
var (
	ErrNilDialer        = errors.New("remote: dialer is nil")
	ErrMissingEndpoint  = errors.New("remote: endpoint is required")
	ErrUnknownTransport = errors.New("remote: unknown transport")
	ErrEmptyResource    = errors.New("remote: resource returned no contents")
	ErrEmptyResponse    = errors.New("remote: empty tool response")
)
