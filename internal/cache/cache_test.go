package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := NewTTL[string](4, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Errorf("expected miss on empty cache")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v, want alpha, true", got, ok)
	}

	c.Set("a", "alpha2")
	got, _ = c.Get("a")
	if got != "alpha2" {
		t.Errorf("Get(a) after overwrite = %q, want alpha2", got)
	}
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1", c.Size())
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewTTL[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recently used
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Errorf("expected b evicted as least recently used")
	}
	if _, ok := c.Get("a"); !ok {
		t.Errorf("expected a retained")
	}
	if _, ok := c.Get("c"); !ok {
		t.Errorf("expected c retained")
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestTTLExpiry(t *testing.T) {
	c := NewTTL[int](4, 10*time.Millisecond)

	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected fresh entry present")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected expired entry gone")
	}
	if c.Size() != 0 {
		t.Errorf("Size after expired Get = %d, want 0", c.Size())
	}
}

func TestDelete(t *testing.T) {
	c := NewTTL[int](4, time.Minute)

	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Errorf("expected deleted entry gone")
	}
	c.Delete("a") // deleting a missing key is a no-op
}

func TestPurge(t *testing.T) {
	c := NewTTL[int](8, 10*time.Millisecond)

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if removed := c.Purge(); removed != 2 {
		t.Errorf("Purge removed %d, want 2", removed)
	}
	if c.Size() != 1 {
		t.Errorf("Size after purge = %d, want 1", c.Size())
	}
	if _, ok := c.Get("c"); !ok {
		t.Errorf("expected unexpired entry to survive purge")
	}
}

func TestJanitor(t *testing.T) {
	c := NewTTL[int](8, 5*time.Millisecond)
	stop := c.StartJanitor(10 * time.Millisecond)
	defer stop()

	c.Set("a", 1)
	time.Sleep(40 * time.Millisecond)

	if c.Size() != 0 {
		t.Errorf("Size = %d, want 0 after janitor pass", c.Size())
	}
	stop()
	stop() // stopping twice must not panic
}
