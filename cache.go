// cache.go: Per-scope options instance cache
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package proteus

import "sync"

// Cache is the simple synchronous per-name instance map used by Manager and
// Monitor. Each cache is owned exclusively by one consumer; no two monitors
// share a cache.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]*T
}

// NewCache creates an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]*T)}
}

// GetOrAdd returns the cached instance for name, building it via create on
// first access. A create error is returned as-is and nothing is cached.
func (c *Cache[T]) GetOrAdd(name string, create func(name string) (*T, error)) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if value, ok := c.entries[name]; ok {
		return value, nil
	}

	value, err := create(name)
	if err != nil {
		return nil, err
	}
	c.entries[name] = value
	return value, nil
}

// TryAdd inserts value for name if absent and reports whether it inserted.
func (c *Cache[T]) TryAdd(name string, value *T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; ok {
		return false
	}
	c.entries[name] = value
	return true
}

// TryRemove evicts the instance for name and reports whether it was present.
func (c *Cache[T]) TryRemove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[name]; !ok {
		return false
	}
	delete(c.entries, name)
	return true
}

// Clear evicts every cached instance.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*T)
	c.mu.Unlock()
}
