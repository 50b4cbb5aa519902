// Package cache provides an in-memory TTL cache for the read-heavy
// list endpoints. Template and schedule lists change rarely compared to
// how often operator screens poll them; a short-lived response cache
// absorbs that traffic without a second storage system.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value      []byte
	expiresAt  time.Time
	insertedAt time.Time
}

// LRUCache is a thread-safe in-memory cache with TTL and max-size
// eviction. At capacity the oldest entry by insertion time is evicted;
// expired entries are lazily dropped on Get.
type LRUCache struct {
	mu      sync.RWMutex
	items   map[string]*entry
	maxSize int
	ttl     time.Duration
}

// NewLRUCache creates a cache holding at most maxSize entries, each
// valid for ttl.
func NewLRUCache(maxSize int, ttl time.Duration) *LRUCache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &LRUCache{
		items:   make(map[string]*entry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get returns the cached value for key, or (nil, false) when missing or
// expired.
func (c *LRUCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, evicting the oldest entry when at
// capacity.
func (c *LRUCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[key] = &entry{
		value:      value,
		expiresAt:  now.Add(c.ttl),
		insertedAt: now,
	}
}

// InvalidateAll drops every entry.
func (c *LRUCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry, c.maxSize)
}

// Size returns the current entry count, counting entries that have
// expired but not yet been lazily cleaned.
func (c *LRUCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the oldest insertion time. Caller
// holds c.mu.
func (c *LRUCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for k, e := range c.items {
		if oldestKey == "" || e.insertedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
