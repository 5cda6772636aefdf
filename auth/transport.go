package auth

import (
	"fmt"
	"net/http"
)

// Default header settings.
const (
	DefaultHeader = "Authorization"
	DefaultPrefix = "Bearer "
)

// Transport is an http.RoundTripper that sets a credential header on every
// request.
type Transport struct {
	// Source supplies the credential.
	Source TokenSource

	// Header receives the credential.
	// Default: "Authorization"
	Header string

	// Prefix precedes the credential, e.g. "Bearer ".
	Prefix string

	// Base performs the request. Nil uses http.DefaultTransport.
	Base http.RoundTripper
}

// NewTransport returns a Transport sending "Authorization: Bearer <token>".
func NewTransport(source TokenSource, base http.RoundTripper) *Transport {
	return &Transport{Source: source, Header: DefaultHeader, Prefix: DefaultPrefix, Base: base}
}

// RoundTrip sets the credential header on a clone of req.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Source == nil {
		return nil, ErrMissingCredentials
	}
	token, err := t.Source.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("auth: obtain token: %w", err)
	}

	header := t.Header
	if header == "" {
		header = DefaultHeader
	}

	out := req.Clone(req.Context())
	out.Header.Set(header, t.Prefix+token)

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(out)
}
