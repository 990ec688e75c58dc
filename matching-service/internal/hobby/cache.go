package hobby

import (
	"sync"
	"time"
)

// TTLCache holds a single value that expires a fixed duration after it was
// stored. Reads never wait on a refresh; callers that miss simply refetch.
type TTLCache[T any] struct {
	mu        sync.RWMutex
	value     T
	expiresAt time.Time
	set       bool
	ttl       time.Duration
	now       func() time.Time
}

// NewTTLCache creates an empty cache whose entries live for ttl.
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value if one is present and fresh.
func (c *TTLCache[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set || !c.now().Before(c.expiresAt) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores v and restarts the expiry window.
func (c *TTLCache[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	c.expiresAt = c.now().Add(c.ttl)
	c.set = true
}

// Invalidate drops the cached value.
func (c *TTLCache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.set = false
}

// ExpiresAt reports when the current value expires, or the zero time.
func (c *TTLCache[T]) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set {
		return time.Time{}
	}
	return c.expiresAt
}
