// Package cache is a small TTL map used for directory lookups and
// verified bearer tokens. Expired entries are swept lazily on writes.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	val V
	exp time.Time
}

type Cache[K comparable, V any] struct {
	mu     sync.RWMutex
	data   map[K]entry[V]
	ttl    time.Duration
	writes int
}

func New[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{data: make(map[K]entry[V]), ttl: ttl}
}

// TTL is the default lifetime handed to SetDefault.
func (c *Cache[K, V]) TTL() time.Duration { return c.ttl }

func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[k]
	if !ok || time.Now().After(e.exp) {
		var zero V
		return zero, false
	}
	return e.val, true
}

func (c *Cache[K, V]) Set(k K, v V, exp time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[k] = entry[V]{val: v, exp: exp}
	c.writes++
	if c.writes >= 64 {
		c.sweepLocked()
		c.writes = 0
	}
}

// SetDefault stores v for the cache's configured TTL.
func (c *Cache[K, V]) SetDefault(k K, v V) {
	c.Set(k, v, time.Now().Add(c.ttl))
}

func (c *Cache[K, V]) Delete(k K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, k)
}

func (c *Cache[K, V]) sweepLocked() {
	now := time.Now()
	for k, e := range c.data {
		if now.After(e.exp) {
			delete(c.data, k)
		}
	}
}
