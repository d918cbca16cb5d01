package cache

import (
	"context"
	"time"
)

// NullCache stores no solve results: every lookup misses and the solve
// always runs. It backs --no-cache and a disabled [cache] config section.
type NullCache struct{}

// NewNullCache returns a cache that keeps nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every result key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the encoded result.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete has no entry to remove.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close holds no resources.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
