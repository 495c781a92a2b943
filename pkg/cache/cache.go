// Package cache provides byte-level caching for serialized analysis reports
// and graph documents.
//
// Three backends share the [Cache] interface:
//   - FileCache: directory-backed entries with TTL metadata, for CLI usage
//   - RedisCache: Redis-backed storage for multi-instance deployments
//   - NullCache: a no-op used in tests or when caching is disabled
//
// Keys are built with [ReportKey] and [GraphKey], which fold the graph's
// mutation version into a SHA-256 digest: a mutated graph can never be served
// a stale report.
package cache

import (
	"context"
	"time"
)

// Default TTLs per payload kind. Reports are cheap to recompute, so they age
// out faster than serialized graph documents.
const (
	TTLReport = 6 * time.Hour
	TTLGraph  = 24 * time.Hour
)

// Cache stores opaque byte payloads under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ReportKey builds the cache key for an analysis report of a graph at a
// specific mutation version.
func ReportKey(graphID string, version uint64) string {
	return hashKey("report", graphID, version)
}

// GraphKey builds the cache key for a serialized graph document.
func GraphKey(graphID string, version uint64) string {
	return hashKey("graph", graphID, version)
}
