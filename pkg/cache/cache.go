// Package cache provides pluggable storage backends for cached GDN API
// responses.
//
// Backends store raw response bodies keyed by a hash of the request URL:
//
//   - [NullCache]: never stores anything (the default; caching is opt-in)
//   - [MemoryCache]: process-local map, for tests and short-lived programs
//   - [FileCache]: entries as files under a directory, for CLI usage
//   - [RedisCache]: Redis with native TTL, for multi-instance deployments
//   - [MongoCache]: MongoDB collection with a TTL index
//
// All backends treat a TTL of zero as "never expires".
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by response-cache backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss;
	// an expired entry is a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A TTL of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources (connections, handles).
	Close() error
}
