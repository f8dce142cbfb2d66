// Package cache provides a small bounded TTL cache used by the geocoding
// resolver. It is process-local and safe for concurrent use; losing an
// entry only costs a redundant provider call, so eviction favors
// simplicity over strict LRU ordering.
package cache

import (
	"sync"
	"time"

	"freight/internal/pkg/errs"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a string-keyed cache with a fixed capacity and per-entry TTL.
// When capacity is exceeded, one arbitrary existing entry (map iteration
// order) is evicted. That is deliberate: the cache only saves external
// calls, it carries no correctness weight.
type TTLCache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// NewTTLCache creates a cache with the given capacity and TTL.
// Capacity must be positive; TTL must be positive.
func NewTTLCache[V any](capacity int, ttl time.Duration) (*TTLCache[V], error) {
	if capacity <= 0 {
		return nil, errs.NewValueIsInvalidError("capacity")
	}
	if ttl <= 0 {
		return nil, errs.NewValueIsInvalidError("ttl")
	}

	return &TTLCache[V]{
		entries:  make(map[string]entry[V], capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// Get returns the cached value for key if present and not expired.
// Expired entries are removed on access.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}

	return e.value, true
}

// Set stores value under key, evicting an arbitrary entry first when the
// cache is full and key is not already present.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Len returns the number of entries currently held, including entries
// that may have expired but were not accessed yet.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
