// Package cache provides the layout result cache.
//
// Computing a roadmap layout is cheap, but the server recomputes it for
// every diagram request; caching by roadmap content hash makes repeated
// views free. Three backends are provided:
//
//   - FileCache: XDG cache directory, for the CLI
//   - RedisCache: shared cache for multi-instance server deployments
//   - NullCache: disabled caching, for tests and --no-cache
//
// Keys are opaque strings; use [Key] to derive one from content.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
