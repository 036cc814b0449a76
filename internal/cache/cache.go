package cache

import (
	"sort"
	"sync"
)

// Cache stores values keyed by string.
type Cache[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

// New creates a new Cache instance.
func New[T any]() *Cache[T] {
	return &Cache[T]{
		items: make(map[string]T),
	}
}

// Get returns a cached value and whether it exists.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.items[key]
	return value, ok
}

// Set stores a value in the cache.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

// SetIfAbsent stores value only when key is missing and reports whether it did.
// Lookup and insert happen under one lock, so concurrent callers racing on the
// same key see exactly one true.
func (c *Cache[T]) SetIfAbsent(key string, value T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		return false
	}

	c.items[key] = value
	return true
}

// Len returns the number of stored keys.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// Keys returns the stored keys in lexical order.
func (c *Cache[T]) Keys() []string {
	c.mu.Lock()
	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	c.mu.Unlock()

	sort.Strings(keys)

	return keys
}
