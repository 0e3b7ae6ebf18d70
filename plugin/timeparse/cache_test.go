package timeparse

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCache_GetSet(t *testing.T) {
	c := newParseCache(10, time.Hour)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	value := now.Add(3 * time.Hour)

	_, ok := c.Get("3pm|UTC", now)
	assert.False(t, ok)

	c.Set("3pm|UTC", value, now)
	got, ok := c.Get("3pm|UTC", now)
	assert.True(t, ok)
	assert.Equal(t, value, got)
}

func TestParseCache_TTLExpiry(t *testing.T) {
	c := newParseCache(10, time.Hour)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	c.Set("k", now, now)

	_, ok := c.Get("k", now.Add(59*time.Minute))
	assert.True(t, ok)

	_, ok = c.Get("k", now.Add(61*time.Minute))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on lookup")
}

func TestParseCache_EvictsOldestByInsertion(t *testing.T) {
	c := newParseCache(3, time.Hour)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), now, now.Add(time.Duration(i)*time.Second))
	}

	// Reading k0 does not protect it: eviction is FIFO, not LRU.
	_, ok := c.Get("k0", now.Add(3*time.Second))
	assert.True(t, ok)

	c.Set("k3", now, now.Add(4*time.Second))
	assert.Equal(t, 3, c.Len())

	_, ok = c.Get("k0", now.Add(5*time.Second))
	assert.False(t, ok, "oldest insertion is evicted first")
	_, ok = c.Get("k3", now.Add(5*time.Second))
	assert.True(t, ok)
}

func TestParseCache_RefreshMovesToNewest(t *testing.T) {
	c := newParseCache(2, time.Hour)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	c.Set("a", now, now)
	c.Set("b", now, now.Add(time.Second))
	c.Set("a", now, now.Add(2*time.Second)) // refresh
	c.Set("c", now, now.Add(3*time.Second)) // evicts b, the oldest insertion

	_, ok := c.Get("b", now.Add(4*time.Second))
	assert.False(t, ok)
	_, ok = c.Get("a", now.Add(4*time.Second))
	assert.True(t, ok)
}

func TestParseCache_SweepDropsExpiredBeforeEviction(t *testing.T) {
	c := newParseCache(3, time.Minute)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	c.Set("old1", now, now)
	c.Set("old2", now, now)
	c.Set("fresh", now, now.Add(2*time.Minute))
	c.Set("newer", now, now.Add(2*time.Minute))

	assert.Equal(t, 2, c.Len(), "expired entries swept instead of evicting live ones")
	_, ok := c.Get("fresh", now.Add(2*time.Minute))
	assert.True(t, ok)
}
