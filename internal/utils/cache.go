package utils

import (
	"os"
	"sync"
	"time"
)

// CacheItem is a cached value stamped with the file state it was derived from
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// fresh reports whether info still describes the file the item was built from
func (i *CacheItem[T]) fresh(info os.FileInfo) bool {
	return info != nil && info.ModTime().Equal(i.ModTime) && info.Size() == i.Size
}

// Cache is a concurrency-safe map whose entries are invalidated when the
// backing file changes size or modification time.
type Cache[K comparable, V any] struct {
	items map[K]*CacheItem[V]
	mutex sync.RWMutex
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*CacheItem[V]),
	}
}

// Lookup returns the item for key if info matches the file state recorded
// when it was stored. Stale items are evicted.
func (c *Cache[K, V]) Lookup(key K, info os.FileInfo) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}
	if item.fresh(info) {
		return item.Value, true
	}

	c.mutex.Lock()
	if current, ok := c.items[key]; ok && current == item {
		delete(c.items, key)
	}
	c.mutex.Unlock()
	return zero, false
}

// Store records value together with the file state in info
func (c *Cache[K, V]) Store(key K, value V, info os.FileInfo) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &CacheItem[V]{
		Value:   value,
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Retain drops every entry whose key is not in keep
func (c *Cache[K, V]) Retain(keep map[K]bool) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	removed := 0
	for key := range c.items {
		if !keep[key] {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}
