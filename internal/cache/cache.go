package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching rendered output
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional expiration
	// If ttl is 0, the value will not be cached
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases any resources used by the cache
	Close() error
}

// Nop is a Cache that never stores anything. It is used when no Redis
// address is configured.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrCacheMiss }

func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) Close() error { return nil }
