package auth

import "errors"

// Sentinel errors for credential handling.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrMissingSigningKey  = errors.New("auth: missing signing key")
	ErrInvalidTTL         = errors.New("auth: token ttl must be positive")
	ErrUnknownType        = errors.New("auth: unknown credential type")
)
