package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures locally minted service tokens.
type JWTConfig struct {
	// Issuer is the iss claim.
	Issuer string `yaml:"issuer"`

	// Subject is the sub claim, typically the client identity.
	Subject string `yaml:"subject"`

	// Audience is the aud claim, typically the query service.
	Audience string `yaml:"audience"`

	// TTL is the token lifetime.
	// Default: 5m
	TTL time.Duration `yaml:"ttl"`

	// Key is the HS256 signing key.
	Key string `yaml:"key"`

	// Claims are extra claims added to every token.
	Claims map[string]any `yaml:"claims"`
}

// refreshWindow is how long before expiry a cached token is replaced.
const refreshWindow = 30 * time.Second

// JWTSource mints HS256 tokens and reuses each one until it nears expiry.
type JWTSource struct {
	config JWTConfig
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// NewJWTSource creates a JWTSource.
func NewJWTSource(config JWTConfig) (*JWTSource, error) {
	if config.Key == "" {
		return nil, ErrMissingSigningKey
	}
	if config.TTL == 0 {
		config.TTL = 5 * time.Minute
	}
	if config.TTL < 0 {
		return nil, ErrInvalidTTL
	}
	return &JWTSource{config: config, now: time.Now}, nil
}

// Token returns a valid signed token.
func (s *JWTSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Add(s.refreshWindow()).Before(s.expires) {
		return s.token, nil
	}

	expires := now.Add(s.config.TTL)
	claims := jwt.MapClaims{}
	for k, v := range s.config.Claims {
		claims[k] = v
	}
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(expires)
	if s.config.Issuer != "" {
		claims["iss"] = s.config.Issuer
	}
	if s.config.Subject != "" {
		claims["sub"] = s.config.Subject
	}
	if s.config.Audience != "" {
		claims["aud"] = s.config.Audience
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Key))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	s.token = signed
	s.expires = expires
	return signed, nil
}

// refreshWindow shrinks for short-lived tokens so a token is always reused
// for at least half its lifetime.
func (s *JWTSource) refreshWindow() time.Duration {
	if half := s.config.TTL / 2; half < refreshWindow {
		return half
	}
	return refreshWindow
}
