// Package lru provides a small bounded least-recently-used cache keyed by
// string. It backs the repository-detection and porcelain-path lookups so
// repeated refreshes stay cheap without growing without bound.
package lru

import (
	"container/list"
	"sync"
)

// Cache is a fixed-capacity LRU map. Safe for concurrent use.
type Cache[V any] struct {
	mu    sync.Mutex
	max   int
	items map[string]*list.Element
	order *list.List
}

type entry[V any] struct {
	key   string
	value V
}

// New creates a cache holding at most max entries.
func New[V any](max int) *Cache[V] {
	if max <= 0 {
		max = 32
	}
	return &Cache[V]{
		max:   max,
		items: make(map[string]*list.Element),
		order: list.New(),
	}
}

// Get returns the cached value and whether it was present.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*entry[V]).value, true
}

// Set stores a value, evicting the least recently used entry at capacity.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*entry[V]).value = value
		return
	}
	if c.order.Len() >= c.max {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry[V]).key)
		}
	}
	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value})
}

// Delete removes a single key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// Purge empties the cache.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
