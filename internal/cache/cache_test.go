package cache

import (
	"testing"
	"time"
)

func TestCacheExpiry(t *testing.T) {
	c := New[string, int](time.Minute)

	c.Set("live", 1, time.Now().Add(time.Minute))
	c.Set("dead", 2, time.Now().Add(-time.Second))

	if v, ok := c.Get("live"); !ok || v != 1 {
		t.Errorf("Get(live) = %d, %v", v, ok)
	}
	if _, ok := c.Get("dead"); ok {
		t.Error("expired entry still served")
	}

	c.Delete("live")
	if _, ok := c.Get("live"); ok {
		t.Error("deleted entry still served")
	}
}

func TestCacheSetDefault(t *testing.T) {
	c := New[string, string](time.Minute)
	c.SetDefault("k", "v")
	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Errorf("Get(k) = %q, %v", v, ok)
	}
}
