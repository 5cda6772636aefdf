package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/dicomquery/auth"
	"github.com/jonwraymond/dicomquery/cache"
	"github.com/jonwraymond/dicomquery/observe"
	"github.com/jonwraymond/dicomquery/query"
	"github.com/jonwraymond/dicomquery/remote"
	"github.com/jonwraymond/dicomquery/secret"
)

// DefaultEndpoint is used when neither the file nor MCP_SERVER_URL sets one.
const DefaultEndpoint = "http://127.0.0.1:8000/sse/"

// Environment variables overriding file values.
const (
	EnvEndpoint  = "MCP_SERVER_URL"
	EnvTransport = "DICOMQUERY_TRANSPORT"
	EnvLogLevel  = "DICOMQUERY_LOG_LEVEL"
	EnvToken     = "DICOMQUERY_AUTH_TOKEN"
)

// Config is the complete client configuration.
type Config struct {
	Endpoint  string `yaml:"endpoint"`
	Transport string `yaml:"transport"`

	// MaxSessions caps concurrently open remote sessions. 0 means no cap.
	MaxSessions int `yaml:"max_sessions"`

	Cache   CacheConfig      `yaml:"cache"`
	Tools   ToolsConfig      `yaml:"tools"`
	Auth    auth.Config      `yaml:"auth"`
	TLS     remote.TLSConfig `yaml:"tls"`
	Secrets SecretsConfig    `yaml:"secrets"`
	Observe observe.Config   `yaml:"observe"`
}

// CacheConfig controls lookup caching.
type CacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	KeyByEndpoint bool `yaml:"key_by_endpoint"`
}

// ToolsConfig names the remote operations.
type ToolsConfig struct {
	Query         string `yaml:"query"`
	Analyze       string `yaml:"analyze"`
	Compute       string `yaml:"compute"`
	NodesResource string `yaml:"nodes_resource"`
}

// SecretsConfig configures secret providers by name ("env", "file").
type SecretsConfig struct {
	Strict    bool                      `yaml:"strict"`
	Providers map[string]map[string]any `yaml:"providers"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Endpoint:  DefaultEndpoint,
		Transport: remote.TransportSSE,
		Cache:     CacheConfig{Enabled: true, KeyByEndpoint: true},
		Tools: ToolsConfig{
			Query:         query.DefaultQueryTool,
			Analyze:       query.DefaultAnalyzeTool,
			Compute:       query.DefaultComputeTool,
			NodesResource: query.DefaultNodesResource,
		},
		Auth:    auth.Config{Type: auth.TypeNone},
		Secrets: SecretsConfig{Strict: true},
		Observe: observe.Config{
			ServiceName: "dicomquery",
			Version:     remote.DefaultClientVersion,
			Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is non-empty) and the process environment, then resolves secrets and
// validates.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.Merge(data); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.ResolveSecrets(ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge overlays YAML data onto c. Keys absent from data keep their values.
func (c *Config) Merge(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse yaml: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.Endpoint = v
	}
	if v, ok := lookup(EnvTransport); ok && v != "" {
		c.Transport = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Observe.Logging.Enabled = true
		c.Observe.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvToken); ok && v != "" {
		if !c.Auth.Enabled() {
			c.Auth.Type = auth.TypeBearer
		}
		c.Auth.Token = v
	}
}

// ResolveSecrets expands environment and secret references in the endpoint
// and credential fields.
func (c *Config) ResolveSecrets(ctx context.Context) error {
	resolver, err := c.newResolver()
	if err != nil {
		return err
	}
	defer func() { _ = resolver.Close() }()

	fields := []struct {
		name string
		ptr  *string
	}{
		{"endpoint", &c.Endpoint},
		{"auth.token", &c.Auth.Token},
		{"auth.jwt.key", &c.Auth.JWT.Key},
		{"tls.ca_file", &c.TLS.CAFile},
		{"tls.cert_file", &c.TLS.CertFile},
		{"tls.key_file", &c.TLS.KeyFile},
	}
	for _, f := range fields {
		if *f.ptr == "" {
			continue
		}
		resolved, err := resolver.ResolveValue(ctx, *f.ptr)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", f.name, err)
		}
		*f.ptr = resolved
	}
	return nil
}

func (c *Config) newResolver() (*secret.Resolver, error) {
	registry := secret.NewBuiltinRegistry()
	known := make(map[string]bool)
	for _, name := range registry.List() {
		known[name] = true
	}
	for name := range c.Secrets.Providers {
		if !known[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSecretProvider, name)
		}
	}

	resolver := secret.NewResolver(c.Secrets.Strict)
	for _, name := range registry.List() {
		p, err := registry.Create(name, c.Secrets.Providers[name])
		if err != nil {
			return nil, fmt.Errorf("config: secret provider %s: %w", name, err)
		}
		resolver.Register(p)
	}
	return resolver, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return ErrMissingEndpoint
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, c.Endpoint)
	}

	switch strings.ToLower(c.Transport) {
	case remote.TransportSSE, remote.TransportStreamable:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Transport)
	}

	if c.MaxSessions < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxSessions, c.MaxSessions)
	}

	for _, name := range []string{c.Tools.Query, c.Tools.Analyze, c.Tools.Compute, c.Tools.NodesResource} {
		if strings.TrimSpace(name) == "" {
			return ErrMissingToolName
		}
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("config: auth: %w", err)
	}
	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("config: observe: %w", err)
	}
	return nil
}

// InvokerOptions returns the remote invoker options for this configuration.
// Telemetry middleware is added by the caller.
func (c *Config) InvokerOptions() []remote.Option {
	return []remote.Option{
		remote.WithEndpoint(c.Endpoint),
		remote.WithMaxSessions(c.MaxSessions),
	}
}

// CachePolicy returns the lookup caching policy.
func (c *Config) CachePolicy() cache.Policy {
	return cache.Policy{Enabled: c.Cache.Enabled, KeyByEndpoint: c.Cache.KeyByEndpoint}
}

// QueryOptions returns facade options for the configured operation names
// and cache policy.
func (c *Config) QueryOptions() query.Options {
	opts := query.DefaultOptions()
	opts.QueryTool = c.Tools.Query
	opts.AnalyzeTool = c.Tools.Analyze
	opts.ComputeTool = c.Tools.Compute
	opts.NodesResource = c.Tools.NodesResource
	opts.Policy = c.CachePolicy()
	return opts
}

// Dialer builds the transport dialer, with TLS and credentials applied to
// its HTTP client.
func (c *Config) Dialer() (remote.Dialer, error) {
	var wrappers []remote.RoundTripperWrapper
	wrap, err := auth.NewRoundTripperWrapper(c.Auth)
	if err != nil {
		return nil, fmt.Errorf("config: auth: %w", err)
	}
	if wrap != nil {
		wrappers = append(wrappers, wrap)
	}

	httpClient, err := remote.NewHTTPClient(c.TLS, wrappers...)
	if err != nil {
		return nil, err
	}
	return remote.NewDialer(c.Transport, c.Endpoint, httpClient)
}
