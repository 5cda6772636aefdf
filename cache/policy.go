package cache

// Policy configures caching behavior.
type Policy struct {
	// Enabled turns lookup caching on. When false every resolve goes to the
	// remote service.
	Enabled bool

	// KeyByEndpoint includes the remote endpoint in the cache key, so one
	// cache can safely front several endpoints.
	KeyByEndpoint bool
}

// DefaultPolicy returns the default caching policy: enabled, keyed by endpoint.
func DefaultPolicy() Policy {
	return Policy{
		Enabled:       true,
		KeyByEndpoint: true,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.Enabled
}
