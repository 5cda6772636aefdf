package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/dicomquery/observe"
	"github.com/jonwraymond/dicomquery/result"
)

// FetchFunc resolves a query against the remote service.
type FetchFunc func(ctx context.Context, q Query) result.Result

// Stats reports cache activity since construction.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Shared  uint64 // misses whose fetch was shared with concurrent callers
	Entries int
}

// CacheMiddleware wraps query resolution with caching.
//
// At most one fetch per key is in flight at any instant. Callers that miss
// while a fetch for the same key is running wait for that fetch instead of
// issuing their own.
type CacheMiddleware struct {
	cache  Cache
	keyer  Keyer
	policy Policy
	logger observe.Logger
	group  singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	shared atomic.Uint64
}

// Option configures a CacheMiddleware.
type Option func(*CacheMiddleware)

// WithLogger logs hits and misses at debug level.
func WithLogger(l observe.Logger) Option {
	return func(m *CacheMiddleware) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewCacheMiddleware creates a new cache middleware.
// A nil cache or keyer is replaced by the in-memory cache and default keyer.
func NewCacheMiddleware(cache Cache, keyer Keyer, policy Policy, opts ...Option) *CacheMiddleware {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if keyer == nil {
		keyer = NewDefaultKeyer()
	}
	m := &CacheMiddleware{
		cache:  cache,
		keyer:  keyer,
		policy: policy,
		logger: observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute resolves q, consulting the cache first.
//
// Invalid queries are reported as application errors without calling fetch.
// Only successful results are stored; errors propagate unchanged so the next
// call with the same query retries the remote service. Every caller receives
// its own copy of the payload and may modify it freely.
func (m *CacheMiddleware) Execute(ctx context.Context, q Query, fetch FetchFunc) result.Result {
	if err := q.Validate(); err != nil {
		return result.ApplicationError(err.Error())
	}

	if !m.policy.ShouldCache() {
		return fetch(ctx, q)
	}

	keyQuery := q
	if !m.policy.KeyByEndpoint {
		keyQuery.Endpoint = ""
	}
	key, err := m.keyer.Key(keyQuery)
	if err != nil {
		return result.ApplicationError(err.Error())
	}

	if cached, ok := m.cache.Get(ctx, key); ok {
		m.hits.Add(1)
		m.logger.Debug(ctx, "cache hit", observe.Field{Key: "cache.key", Value: key})
		return result.Success(clonePayload(cached))
	}

	m.misses.Add(1)
	m.logger.Debug(ctx, "cache miss", observe.Field{Key: "cache.key", Value: key})

	v, _, shared := m.group.Do(key, func() (any, error) {
		// A fetch for this key may have completed between Get and Do.
		if cached, ok := m.cache.Get(ctx, key); ok {
			return result.Success(cached), nil
		}

		// Once issued, a fetch runs to completion for every waiter.
		res := fetch(context.WithoutCancel(ctx), q)
		if res.OK() {
			if err := m.cache.Set(ctx, key, clonePayload(res.Data)); err != nil {
				m.logger.Warn(ctx, "cache store failed",
					observe.Field{Key: "cache.key", Value: key},
					observe.Field{Key: "error", Value: err.Error()},
				)
			}
		}
		return res, nil
	})
	res := v.(result.Result)
	if shared {
		m.shared.Add(1)
		res.Data = clonePayload(res.Data)
	}
	return res
}

// Stats returns a snapshot of cache activity.
func (m *CacheMiddleware) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Shared:  m.shared.Load(),
		Entries: m.cache.Len(),
	}
}

// Policy returns the middleware's caching policy.
func (m *CacheMiddleware) Policy() Policy {
	return m.policy
}
