// Package cache provides a small TTL-bounded key cache. It replaces the
// pattern of a package-global cooldown map: the cache is constructed and
// owned by its caller and pruned on a schedule.
package cache

import (
	"context"
	"sync"
	"time"
)

// TTLCache remembers string keys for a fixed duration.
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
	now     func() time.Time
}

// NewTTL constructs a cache whose keys expire after ttl.
func NewTTL(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Set remembers key, refreshing its expiry if already present.
func (c *TTLCache) Set(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = c.now().Add(c.ttl)
}

// Contains reports whether key is present and not expired.
func (c *TTLCache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	deadline, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.now().After(deadline) {
		delete(c.entries, key)
		return false
	}
	return true
}

// Prune removes expired entries and returns how many were dropped.
func (c *TTLCache) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dropped := 0
	for key, deadline := range c.entries {
		if now.After(deadline) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of stored keys, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartPruner prunes on the given interval until ctx is cancelled.
func (c *TTLCache) StartPruner(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Prune()
			}
		}
	}()
}
