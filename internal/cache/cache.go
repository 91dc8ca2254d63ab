// Package cache holds a single time-boxed value. Storing a value under a new
// key replaces whatever was cached before.
package cache

import (
	"sync"
	"time"
)

type entry[T any] struct {
	key      string
	value    T
	storedAt time.Time
}

type Cache[T any] struct {
	mu  sync.Mutex
	now func() time.Time
	cur *entry[T]
}

type Option[T any] func(*Cache[T])

// WithClock replaces time.Now, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) {
		c.now = now
	}
}

func New[T any](opts ...Option[T]) *Cache[T] {
	c := &Cache[T]{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key if it is younger than ttl.
func (c *Cache[T]) Get(key string, ttl time.Duration) (T, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.cur == nil || c.cur.key != key {
		return zero, time.Time{}, false
	}
	if c.now().Sub(c.cur.storedAt) >= ttl {
		return zero, time.Time{}, false
	}
	return c.cur.value, c.cur.storedAt, true
}

// Set replaces the slot wholesale and returns the store time.
func (c *Cache[T]) Set(key string, value T) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.cur = &entry[T]{key: key, value: value, storedAt: now}
	return now
}

func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	c.cur = nil
	c.mu.Unlock()
}
