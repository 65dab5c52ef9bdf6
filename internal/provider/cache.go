package provider

import (
	"sync"
	"time"

	"github.com/spotyda/spotyda/internal/track"
)

// queryCache memoizes search results by normalized query text. Unlike a
// session-lifetime map it is bounded: entries expire after a TTL and the
// oldest entry is evicted when the cache is full.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	tracks   []track.Track
	storedAt time.Time
}

func newQueryCache(maxSize int, ttl time.Duration) *queryCache {
	return &queryCache{
		entries: make(map[string]cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *queryCache) get(key string) ([]track.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	tracks := make([]track.Track, len(entry.tracks))
	copy(tracks, entry.tracks)
	return tracks, true
}

func (c *queryCache) put(key string, tracks []track.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	snapshot := make([]track.Track, len(tracks))
	copy(snapshot, tracks)
	c.entries[key] = cacheEntry{tracks: snapshot, storedAt: c.now()}
}

func (c *queryCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
