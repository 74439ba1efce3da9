package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process SurveyCache with per-entry TTL and a
// background sweep. Safe for concurrent use.
type MemoryCache struct {
	mu              sync.RWMutex
	items           map[string]memoryEntry
	prefix          string
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
	cleanupInterval time.Duration
}

// NewMemoryCache starts a MemoryCache. A non-positive cleanupInterval
// defaults to five minutes.
func NewMemoryCache(prefix string, cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	c := &MemoryCache{
		items:           make(map[string]memoryEntry),
		prefix:          prefix,
		stopCleanup:     make(chan struct{}),
		cleanupInterval: cleanupInterval,
	}
	go c.cleanupExpired()
	return c
}

func (c *MemoryCache) Get(_ context.Context, fp string) ([]byte, bool, error) {
	key := Key(c.prefix, fp)

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	now := time.Now()
	if now.After(e.expiresAt) {
		c.mu.Lock()
		if cur, exists := c.items[key]; exists && now.After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores a copy of value. A non-positive ttl removes the key.
func (c *MemoryCache) Set(_ context.Context, fp string, value []byte, ttl time.Duration) error {
	key := Key(c.prefix, fp)
	if ttl <= 0 {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil
	}

	cp := make([]byte, len(value))
	copy(cp, value)

	c.mu.Lock()
	c.items[key] = memoryEntry{value: cp, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, v := range c.items {
				if now.After(v.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the sweep goroutine.
func (c *MemoryCache) Close() error {
	c.cleanupOnce.Do(func() { close(c.stopCleanup) })
	return nil
}

// Len returns the number of entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
