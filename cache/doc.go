// Package cache provides the session-scoped query cache.
//
// It derives canonical, order-independent keys from a query level and its
// filters, stores successful payloads for the lifetime of the owning client,
// and collapses concurrent misses on the same key into one remote call.
//
// Entries are never evicted, expired or invalidated. A value changed on the
// remote side after it was cached stays invisible until the cache is dropped,
// which suits short interactive sessions rather than long-running services.
package cache
