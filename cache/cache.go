package cache

import (
	"context"
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilCache       = errors.New("cache: cache is nil")
	ErrInvalidKey     = errors.New("cache: key is invalid")
	ErrKeyTooLong     = errors.New("cache: key exceeds max length")
	ErrInvalidLevel   = errors.New("cache: query level is required")
	ErrUnstableFilter = errors.New("cache: filter value is not a stable scalar")
)

// Cache stores resolved query payloads.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Lifetime: entries live until the cache itself is discarded.
// - Errors: Get should never error; it returns (nil, false) on miss.
// - Ownership: Get may return the stored value itself. CacheMiddleware
//   copies payloads on store and on every hit, so stored values are never
//   shared with callers.
type Cache interface {
	// Get retrieves a cached payload. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores a payload, overwriting any previous value for key.
	Set(ctx context.Context, key string, value any) error

	// Len returns the number of cached entries.
	Len() int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
