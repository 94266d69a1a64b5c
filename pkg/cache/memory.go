package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache is a size-bounded in-memory cache. When full, the least
// recently used entry is evicted. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.Mutex
	max     int
	order   *list.List // front is most recently used
	entries map[string]*list.Element
	now     func() time.Time
}

type memoryEntry struct {
	key       string
	data      []byte
	expiresAt time.Time // zero never expires
}

// NewMemoryCache creates a cache holding at most max entries. A max of zero
// or less means 128.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = 128
	}
	return &MemoryCache{
		max:     max,
		order:   list.New(),
		entries: make(map[string]*list.Element),
		now:     time.Now,
	}
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	e := el.Value.(*memoryEntry)
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.remove(el)
		return nil, false, nil
	}
	c.order.MoveToFront(el)
	return e.data, true, nil
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &memoryEntry{key: key, data: data}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	if el, ok := c.entries[key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return nil
	}
	c.entries[key] = c.order.PushFront(e)
	for c.order.Len() > c.max {
		c.remove(c.order.Back())
	}
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.entries)
	return nil
}

func (c *MemoryCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(*memoryEntry).key)
}

var _ Cache = (*MemoryCache)(nil)
