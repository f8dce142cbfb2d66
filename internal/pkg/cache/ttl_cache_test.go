package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTTLCache(t *testing.T) {
	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := NewTTLCache[int](0, time.Minute)

		require.Error(t, err)
	})

	t.Run("rejects non-positive ttl", func(t *testing.T) {
		_, err := NewTTLCache[int](10, 0)

		require.Error(t, err)
	})
}

func TestTTLCache_GetSet(t *testing.T) {
	t.Run("returns stored value before expiry", func(t *testing.T) {
		c, err := NewTTLCache[string](10, time.Minute)
		require.NoError(t, err)

		c.Set("key", "value")

		got, ok := c.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "value", got)
	})

	t.Run("misses unknown key", func(t *testing.T) {
		c, _ := NewTTLCache[string](10, time.Minute)

		_, ok := c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("expires entries after ttl", func(t *testing.T) {
		c, _ := NewTTLCache[string](10, time.Minute)
		current := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return current }

		c.Set("key", "value")

		current = current.Add(61 * time.Second)
		_, ok := c.Get("key")
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("overwrites existing key without eviction", func(t *testing.T) {
		c, _ := NewTTLCache[string](1, time.Minute)

		c.Set("key", "old")
		c.Set("key", "new")

		got, ok := c.Get("key")
		assert.True(t, ok)
		assert.Equal(t, "new", got)
		assert.Equal(t, 1, c.Len())
	})
}

func TestTTLCache_BoundedCapacity(t *testing.T) {
	c, _ := NewTTLCache[int](100, time.Minute)

	for i := 0; i < 150; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
	}

	// One arbitrary entry is dropped per insert over capacity.
	assert.Equal(t, 100, c.Len())
}
