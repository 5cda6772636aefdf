package query

import "errors"

// Sentinel errors for the query package.
var (
	ErrNilInvoker      = errors.New("query: invoker is nil")
	ErrNoInstances     = errors.New("query: at least one instance id is required")
	ErrMissingArgument = errors.New("query: missing argument")
	ErrUnknownTool     = errors.New("query: unknown tool")
)
