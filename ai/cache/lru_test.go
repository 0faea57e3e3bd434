package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLRU(capacity int, ttl time.Duration) (*LRUCache[string, int], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[string, int](capacity, ttl)
	c.now = clock.Now
	return c, clock
}

func TestLRUCache_Creation(t *testing.T) {
	testCases := []struct {
		name      string
		capacity  int
		expectCap int
	}{
		{"default capacity", 0, 100},
		{"negative capacity", -3, 100},
		{"custom capacity", 8, 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewLRUCache[string, int](tc.capacity, 0)
			assert.Equal(t, tc.expectCap, c.Capacity())
			assert.Equal(t, 0, c.len())
			assert.Equal(t, 5*time.Minute, c.defaultTTL)
		})
	}
}

func TestLRUCache_SetGet(t *testing.T) {
	c, _ := newTestLRU(4, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Set("a", 2, 0)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.len())
}

func TestLRUCache_TTLExpiration(t *testing.T) {
	c, clock := newTestLRU(4, time.Minute)

	c.Set("default", 1, 0)
	c.Set("short", 2, 10*time.Second)

	clock.Advance(11 * time.Second)
	_, ok := c.Get("short")
	assert.False(t, ok, "entry past its own TTL must expire")
	_, ok = c.Get("default")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get("default")
	assert.False(t, ok)
	assert.Equal(t, 0, c.len(), "expired entries are removed on read")
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestLRU(3, time.Minute)

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	// Touch "a" so "b" becomes the oldest.
	_, _ = c.Get("a")
	c.Set("d", 4, 0)

	assert.Equal(t, 3, c.len())
	_, ok := c.Get("b")
	assert.False(t, ok)
	for _, k := range []string{"a", "c", "d"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
}

func TestLRUCache_ThreadSafety(t *testing.T) {
	c := NewLRUCache[string, int](50, time.Minute)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*200+i)%75)
				c.Set(key, i, 0)
				_, _ = c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.len(), 50)
}
