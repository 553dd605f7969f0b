package text

import "sync"

// cache is a generic cache with a soft limit. When the cache exceeds
// softLimit, least-recently-accessed entries are evicted. A softLimit
// of 0 means unlimited; the face cache uses 0 because the set of
// distinct (family, weight, stretch, italic) combinations actually
// requested stays small in practice.
//
// cache is safe for concurrent use and must not be copied after
// creation (has mutex).
type cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*cacheEntry[V]
	softLimit int
	tick      int64 // Monotonic access counter
}

// cacheEntry holds a cached value with its access time.
type cacheEntry[V any] struct {
	value V
	atime int64 // Access time (tick value)
}

func newCache[K comparable, V any](softLimit int) *cache[K, V] {
	return &cache[K, V]{
		entries:   make(map[K]*cacheEntry[V]),
		softLimit: softLimit,
	}
}

// get retrieves a value from the cache.
func (c *cache[K, V]) get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}

	c.tick++
	entry.atime = c.tick
	return entry.value, true
}

// set stores a value, evicting the oldest entry when over the limit.
func (c *cache[K, V]) set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	c.entries[key] = &cacheEntry[V]{value: value, atime: c.tick}

	if c.softLimit > 0 && len(c.entries) > c.softLimit {
		c.evictOldest()
	}
}

// evictOldest removes the entry with the smallest access time.
// Caller must hold the lock.
func (c *cache[K, V]) evictOldest() {
	var oldestKey K
	oldestTime := int64(-1)
	for k, e := range c.entries {
		if oldestTime < 0 || e.atime < oldestTime {
			oldestKey = k
			oldestTime = e.atime
		}
	}
	if oldestTime >= 0 {
		delete(c.entries, oldestKey)
	}
}

// len returns the number of cached entries.
func (c *cache[K, V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
