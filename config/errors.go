package config

import "errors"

// Sentinel errors for configuration.
var (
	ErrMissingEndpoint       = errors.New("config: endpoint is required")
	ErrInvalidEndpoint       = errors.New("config: endpoint must be an http or https URL")
	ErrInvalidTransport      = errors.New("config: transport must be sse or streamable")
	ErrInvalidMaxSessions    = errors.New("config: max_sessions must not be negative")
	ErrMissingToolName       = errors.New("config: tool and resource names must not be empty")
	ErrUnknownSecretProvider = errors.New("config: unknown secret provider")
)
