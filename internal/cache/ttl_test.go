package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheSetAndContains(t *testing.T) {
	c := NewTTL(time.Minute)

	assert.False(t, c.Contains("a"))
	c.Set("a")
	assert.True(t, c.Contains("a"))
	assert.False(t, c.Contains("b"))
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTL(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a")
	assert.True(t, c.Contains("a"))

	now = now.Add(2 * time.Minute)
	assert.False(t, c.Contains("a"))
	assert.Equal(t, 0, c.Len(), "expired entry dropped on lookup")
}

func TestTTLCacheSetRefreshesExpiry(t *testing.T) {
	c := NewTTL(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a")
	now = now.Add(50 * time.Second)
	c.Set("a")
	now = now.Add(50 * time.Second)
	assert.True(t, c.Contains("a"))
}

func TestTTLCachePrune(t *testing.T) {
	c := NewTTL(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a")
	c.Set("b")
	now = now.Add(30 * time.Second)
	c.Set("c")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 2, c.Prune())
	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains("c"))
}
