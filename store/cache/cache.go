// Package cache provides an in-memory TTL cache used by the store layer to
// avoid re-reading hot preference rows on every command.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Config configures a Cache.
type Config struct {
	DefaultTTL      time.Duration // entry lifetime (default: 10 minutes)
	CleanupInterval time.Duration // background sweep interval (default: 5 minutes)
	MaxItems        int           // size cap, LRU beyond it (default: 1000)
	OnEviction      func(key string, value any)
}

// Cache is a size-capped TTL cache safe for concurrent use.
type Cache struct {
	config Config

	mu        sync.Mutex
	items     map[string]*item
	order     *list.List // recency order, most recent at front
	done      chan struct{}
	closeOnce sync.Once
}

type item struct {
	key       string
	value     any
	expiresAt time.Time
	element   *list.Element
}

// New creates a cache and starts its background sweep.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.MaxItems <= 0 {
		config.MaxItems = 1000
	}

	c := &Cache{
		config: config,
		items:  make(map[string]*item),
		order:  list.New(),
		done:   make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		c.remove(it)
		return nil, false
	}
	c.order.MoveToFront(it.element)
	return it.value, true
}

// Set stores a value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[key]; ok {
		it.value = value
		it.expiresAt = time.Now().Add(c.config.DefaultTTL)
		c.order.MoveToFront(it.element)
		return
	}

	for len(c.items) >= c.config.MaxItems {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.remove(oldest.Value.(*item))
	}

	it := &item{key: key, value: value, expiresAt: time.Now().Add(c.config.DefaultTTL)}
	it.element = c.order.PushFront(it)
	c.items[key] = it
}

// Delete removes the entry for key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[key]; ok {
		c.remove(it)
	}
}

// Close stops the background sweep.
func (c *Cache) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// remove deletes an item and fires the eviction hook. Must be called with
// the lock held.
func (c *Cache) remove(it *item) {
	c.order.Remove(it.element)
	delete(c.items, it.key)
	if c.config.OnEviction != nil {
		c.config.OnEviction(it.key, it.value)
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			var expired []*item
			for _, it := range c.items {
				if now.After(it.expiresAt) {
					expired = append(expired, it)
				}
			}
			for _, it := range expired {
				c.remove(it)
			}
			c.mu.Unlock()
		}
	}
}
