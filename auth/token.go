package auth

import (
	"context"
	"strings"
)

// TokenSource supplies the credential for one request.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: a failed Token aborts the request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token.
type StaticToken string

// Token returns the token, or ErrMissingCredentials when it is blank.
func (t StaticToken) Token(context.Context) (string, error) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return "", ErrMissingCredentials
	}
	return s, nil
}

// TokenSourceFunc adapts a function to TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
