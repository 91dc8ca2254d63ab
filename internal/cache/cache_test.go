package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func TestGetWithinTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	c := New(WithClock[[]string](clock.Now))

	stored := c.Set("kevinryans", []string{"huben"})
	clock.Advance(4 * time.Minute)

	got, at, ok := c.Get("kevinryans", 5*time.Minute)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if !at.Equal(stored) {
		t.Errorf("storedAt = %v, want %v", at, stored)
	}
	if len(got) != 1 || got[0] != "huben" {
		t.Errorf("value = %v", got)
	}
}

func TestGetExpired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)}
	c := New(WithClock[int](clock.Now))

	c.Set("k", 1)
	clock.Advance(5 * time.Minute)

	if _, _, ok := c.Get("k", 5*time.Minute); ok {
		t.Error("expected miss once ttl has elapsed")
	}
}

func TestSingleSlot(t *testing.T) {
	c := New[int]()
	c.Set("a", 1)
	c.Set("b", 2)

	if _, _, ok := c.Get("a", time.Minute); ok {
		t.Error("setting b should evict a")
	}
	if v, _, ok := c.Get("b", time.Minute); !ok || v != 2 {
		t.Errorf("Get(b) = %d, %v", v, ok)
	}
}

func TestInvalidate(t *testing.T) {
	c := New[int]()
	c.Set("a", 1)
	c.Invalidate()

	if _, _, ok := c.Get("a", time.Minute); ok {
		t.Error("expected miss after Invalidate")
	}
}
