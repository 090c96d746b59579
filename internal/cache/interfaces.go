package cache

import (
	"context"
	"time"
)

// Cache is the interface both the shop-catalog cache and the verified-token
// cache are built on. Memory backs development and single-instance deploys,
// Redis backs production.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Close releases cache resources.
	Close() error
}

// CacheError is a sentinel error type for cache results.
type CacheError string

func (e CacheError) Error() string { return string(e) }

// ErrCacheMiss indicates the key was not found in cache.
const ErrCacheMiss CacheError = "cache miss"
