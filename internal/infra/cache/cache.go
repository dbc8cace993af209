// Package cache provides a typed in-memory TTL cache on top of go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// InMemory is a thread-safe in-memory cache with TTL.
type InMemory[T any] struct {
	c *gocache.Cache
}

// New creates a new in-memory cache with the given TTL. Expired entries are
// purged every TTL.
func New[T any](ttl time.Duration) *InMemory[T] {
	return &InMemory[T]{c: gocache.New(ttl, ttl)}
}

// Get retrieves a value from the cache. Returns false if not found or expired.
func (c *InMemory[T]) Get(key string) (T, bool) {
	v, ok := c.c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Set stores a value in the cache with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.c.SetDefault(key, value)
}

// Delete removes a value from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.c.Delete(key)
}

// Len reports the number of entries, including expired ones not yet purged.
func (c *InMemory[T]) Len() int {
	return c.c.ItemCount()
}
