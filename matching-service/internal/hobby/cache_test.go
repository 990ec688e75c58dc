package hobby

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

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

func newTestCache(ttl time.Duration) (*TTLCache[[]string], *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewTTLCache[[]string](ttl)
	c.now = clock.Now
	return c, clock
}

func TestTTLCache_EmptyMisses(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	v, ok := c.Get()
	assert.False(t, ok)
	assert.Nil(t, v)
	assert.True(t, c.ExpiresAt().IsZero())
}

func TestTTLCache_ExpiresAfterTTL(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	c.Set([]string{"golf"})

	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, []string{"golf"}, v)

	clock.Advance(59 * time.Minute)
	_, ok = c.Get()
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = c.Get()
	assert.False(t, ok)
}

func TestTTLCache_SetRestartsWindow(t *testing.T) {
	c, clock := newTestCache(time.Hour)
	c.Set([]string{"a"})
	clock.Advance(50 * time.Minute)
	c.Set([]string{"b"})
	clock.Advance(50 * time.Minute)

	v, ok := c.Get()
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, v)
}

func TestTTLCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(time.Hour)
	c.Set([]string{"a"})
	c.Invalidate()
	_, ok := c.Get()
	assert.False(t, ok)
}

func TestTTLCache_ConcurrentAccess(t *testing.T) {
	c := NewTTLCache[int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(i)
				c.Get()
			}
		}(i)
	}
	wg.Wait()
	_, ok := c.Get()
	assert.True(t, ok)
}
