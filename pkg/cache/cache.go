// Package cache provides pluggable byte caches for derived graph
// artifacts.
//
// Computing a layered layout or rendering an SVG for a large graph is
// deterministic in the graph's content, so the server caches results
// keyed by a content hash of the serialized graph. Backends:
//   - file: directory-based cache for single-instance and CLI use
//   - redis: shared cache for multi-instance deployments
//   - null: disabled caching for tests
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends. Implementations must treat
// a missing key as (nil, false, nil), not an error.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A TTL of 0 means the entry
	// never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKey generates the cache key for a computed layout of the graph
// content identified by graphHash.
func LayoutKey(graphHash string) string {
	return "layout:" + graphHash
}

// SVGKey generates the cache key for a rendered SVG of the graph content
// identified by graphHash.
func SVGKey(graphHash string) string {
	return "svg:" + graphHash
}
