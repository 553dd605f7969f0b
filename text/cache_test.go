package text

import (
	"strconv"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := newCache[string, int](8)

	if _, ok := c.get("missing"); ok {
		t.Error("empty cache should miss")
	}
	c.set("a", 1)
	if v, ok := c.get("a"); !ok || v != 1 {
		t.Errorf("get after set = %d, %v", v, ok)
	}
	c.set("a", 2)
	if v, _ := c.get("a"); v != 2 {
		t.Errorf("set should overwrite, got %d", v)
	}
	if c.len() != 1 {
		t.Errorf("len = %d, want 1", c.len())
	}
}

func TestCacheSoftLimitEvicts(t *testing.T) {
	c := newCache[string, int](4)
	for i := 0; i < 10; i++ {
		c.set(strconv.Itoa(i), i)
	}
	if c.len() > 4 {
		t.Errorf("len = %d, want at most the soft limit 4", c.len())
	}
	// The most recent insert survives.
	if v, ok := c.get("9"); !ok || v != 9 {
		t.Errorf("latest entry = %d, %v; want 9, true", v, ok)
	}
}

func TestCacheZeroLimitUnbounded(t *testing.T) {
	c := newCache[int, int](0)
	for i := 0; i < 100; i++ {
		c.set(i, i)
	}
	if c.len() != 100 {
		t.Errorf("len = %d, want unbounded growth to 100", c.len())
	}
}
