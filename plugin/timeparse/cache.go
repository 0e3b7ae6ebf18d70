package timeparse

import (
	"container/list"
	"sync"
	"time"
)

// parseCache is a bounded FIFO cache with TTL for resolved instants.
//
// The cache is an optimization only: a hit returns the instant computed at
// first resolution, so "now"-relative expressions can be stale by at most
// the TTL. Eviction drops expired entries opportunistically and trims to
// the size cap by oldest insertion.
type parseCache struct {
	capacity int
	ttl      time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   *list.List // insertion order, newest at front
}

type cacheEntry struct {
	key      string
	value    time.Time
	storedAt time.Time
	element  *list.Element
}

func newParseCache(capacity int, ttl time.Duration) *parseCache {
	if capacity <= 0 {
		capacity = 1000
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &parseCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*cacheEntry),
		order:    list.New(),
	}
}

// Get returns the cached instant for key if present and unexpired.
func (c *parseCache) Get(key string, now time.Time) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return time.Time{}, false
	}
	if now.Sub(e.storedAt) > c.ttl {
		c.remove(e)
		return time.Time{}, false
	}
	return e.value, true
}

// Set inserts or refreshes an entry. A refresh counts as a new insertion
// for eviction ordering.
func (c *parseCache) Set(key string, value time.Time, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.storedAt = now
		c.order.MoveToFront(e.element)
		return
	}

	c.sweep(now)
	for len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	e := &cacheEntry{key: key, value: value, storedAt: now}
	e.element = c.order.PushFront(e)
	c.entries[key] = e
}

// Len returns the number of cached entries.
func (c *parseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep drops expired entries. Must be called with the lock held.
func (c *parseCache) sweep(now time.Time) {
	var expired []*cacheEntry
	for _, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			expired = append(expired, e)
		}
	}
	for _, e := range expired {
		c.remove(e)
	}
}

// evictOldest removes the oldest-by-insertion entry. Must be called with
// the lock held.
func (c *parseCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}
	c.remove(oldest.Value.(*cacheEntry))
}

// remove deletes an entry. Must be called with the lock held.
func (c *parseCache) remove(e *cacheEntry) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}
