// Package cache provides a small in-memory key/value cache with per-entry
// expiry. Expired entries behave as absent and are removed by Sweep.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value      V
	insertedAt time.Time
	ttl        time.Duration
}

func (e entry[V]) expired(now time.Time) bool {
	return now.Sub(e.insertedAt) > e.ttl
}

// Cache is a TTL cache safe for concurrent use. Values are stored as given;
// callers that hand out mutable values should copy them first.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
	ttl   time.Duration
	now   func() time.Time
}

// New creates a cache whose entries live for ttl. A nil clock uses time.Now.
func New[K comparable, V any](ttl time.Duration, clock func() time.Time) *Cache[K, V] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[K, V]{
		items: make(map[K]entry[V]),
		ttl:   ttl,
		now:   clock,
	}
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's default TTL, replacing any
// previous entry.
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit lifetime.
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = entry[V]{value: value, insertedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

// Delete removes key. It reports whether an entry was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// DeleteFunc removes every entry whose key matches and returns how many were removed.
func (c *Cache[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.items {
		if match(k) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Clear drops every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	c.items = make(map[K]entry[V])
	c.mu.Unlock()
}

// Sweep removes expired entries and returns how many were removed.
func (c *Cache[K, V]) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
