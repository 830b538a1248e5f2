package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache[int, []float64](3)

	c.put(1, []float64{3.3})
	c.put(2, []float64{4.1})

	vals, ok := c.get(1)
	assert.True(t, ok)
	assert.Equal(t, []float64{3.3}, vals)

	_, ok = c.get(13)
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache[int, string](2)

	c.put(1940, "1940s")
	c.put(1950, "1950s")
	c.put(1960, "1960s") // evicts 1940

	_, ok := c.get(1940)
	assert.False(t, ok, "1940 should have been evicted")

	label, ok := c.get(1950)
	assert.True(t, ok)
	assert.Equal(t, "1950s", label)

	label, ok = c.get(1960)
	assert.True(t, ok)
	assert.Equal(t, "1960s", label)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache[int, string](2)

	c.put(1, "January")
	c.put(2, "February")

	c.get(1)

	// 2 is now least recently used
	c.put(3, "March")

	_, ok := c.get(1)
	assert.True(t, ok, "1 was accessed recently, should not be evicted")

	_, ok = c.get(2)
	assert.False(t, ok, "2 should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache[int, string](2)

	c.put(1, "Jan")
	c.put(1, "January")

	label, ok := c.get(1)
	assert.True(t, ok)
	assert.Equal(t, "January", label)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_ZeroCapacityHoldsOne(t *testing.T) {
	c := newLRUCache[int, string](0)

	c.put(1, "a")
	c.put(2, "b")

	_, ok := c.get(2)
	assert.True(t, ok)
	assert.Equal(t, 1, c.len())
}
