package health

import "errors"

var (
	// ErrCheckTimeout indicates a health check did not finish before the
	// aggregator deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckFailed indicates an operation reported an error result.
	ErrCheckFailed = errors.New("health: check failed")
)
