package auth

import (
	"fmt"
	"net/http"
	"strings"
)

// Credential types accepted by Config.Type.
const (
	TypeNone   = "none"
	TypeBearer = "bearer"
	TypeAPIKey = "api_key"
	TypeJWT    = "jwt"
)

// Config selects and configures the credential sent to the remote service.
type Config struct {
	// Type is none, bearer, api_key or jwt. Empty means none.
	Type string `yaml:"type"`

	// Token is the bearer token or API key.
	Token string `yaml:"token"`

	// Header overrides the header name. Default: Authorization for bearer and
	// jwt, X-API-Key for api_key.
	Header string `yaml:"header"`

	// JWT configures locally minted tokens.
	JWT JWTConfig `yaml:"jwt"`
}

// Enabled reports whether a credential is configured.
func (c Config) Enabled() bool {
	t := strings.ToLower(c.Type)
	return t != "" && t != TypeNone
}

// Validate checks that the selected type has what it needs.
func (c Config) Validate() error {
	switch strings.ToLower(c.Type) {
	case "", TypeNone:
		return nil
	case TypeBearer, TypeAPIKey:
		if strings.TrimSpace(c.Token) == "" {
			return fmt.Errorf("%w: %s requires a token", ErrMissingCredentials, c.Type)
		}
		return nil
	case TypeJWT:
		if c.JWT.Key == "" {
			return ErrMissingSigningKey
		}
		if c.JWT.TTL < 0 {
			return ErrInvalidTTL
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
}

// NewRoundTripperWrapper returns a function decorating an http.RoundTripper
// with the configured credential. For type none it returns nil.
func NewRoundTripperWrapper(c Config) (func(http.RoundTripper) http.RoundTripper, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		source TokenSource
		header = DefaultHeader
		prefix = DefaultPrefix
	)
	switch strings.ToLower(c.Type) {
	case "", TypeNone:
		return nil, nil
	case TypeBearer:
		source = StaticToken(c.Token)
	case TypeAPIKey:
		source = StaticToken(c.Token)
		header = "X-API-Key"
		prefix = ""
	case TypeJWT:
		jwtSource, err := NewJWTSource(c.JWT)
		if err != nil {
			return nil, err
		}
		source = jwtSource
	}
	if c.Header != "" {
		header = c.Header
	}

	return func(base http.RoundTripper) http.RoundTripper {
		return &Transport{Source: source, Header: header, Prefix: prefix, Base: base}
	}, nil
}
