// Package cache provides pluggable byte caching for rendered artifacts.
//
// The pack server renders the tag graph on demand; rendering goes through
// Graphviz and is slow enough to be worth caching. Keys are derived from a
// content hash of the archive, so a re-read of an unchanged pack hits the
// cache and an edited pack misses it naturally.
//
// Three backends are provided: [FileCache] (default, XDG cache directory),
// [RedisCache] (shared cache for multiple server instances), and
// [NullCache] (caching disabled).
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay fresh.
const TTLArtifact = 24 * time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the cached value for key. The second return reports
	// whether the key was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
