// Package cache stores rendered artifacts keyed by a content hash of their
// inputs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [NullCache]: never stores anything
//   - [RedisCache]: a Redis server, via go-redis
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Remote backends wrap transient failures with [Retryable] and retry them
// through [RetryWithBackoff]. A miss is never an error.
//
// # Keys
//
// A [Keyer] turns input hashes into backend keys. [DefaultKeyer] produces
// "artifact:<sha256>" style keys; [ScopedKeyer] adds a namespace prefix so
// several tenants or template sets can share one backend.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLSummary  = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}
