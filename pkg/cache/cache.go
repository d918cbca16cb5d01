// Package cache stores solve results keyed by their inputs.
//
// Every strategy is deterministic, so a result depends only on the task set,
// the constraints, the strategy and the engine settings. [Keyer] turns those
// into a key, and a [Cache] backend stores the encoded result:
//
//   - [NullCache] disables caching.
//   - [FileCache] keeps entries on disk for the CLI.
//   - [RedisCache] shares entries between API server replicas.
//
// Backends never interpret the bytes they store.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long a solve result stays cached unless configured
// otherwise.
const DefaultTTL = 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit, or false on a miss. Expired
	// and unreadable entries count as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
