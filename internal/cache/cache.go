package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not found in the cache
var ErrCacheMiss = errors.New("cache miss")

// Cache stores feed documents, media bytes and rendered images
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional expiration
	// If ttl is 0, the value will not be cached
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Close releases any resources used by the cache
	Close() error
}

// Nop never stores anything. It is used when no Redis host is configured.
type Nop struct{}

func (Nop) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, ErrCacheMiss
}

func (Nop) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (Nop) Close() error {
	return nil
}
