package cache

import (
	"sync"
	"time"
)

// Answer is a cached assistant response.
type Answer struct {
	Response string
	Category string
	Topics   []string
}

// Stats reports cache effectiveness for admin endpoints.
type Stats struct {
	Size     int     `json:"cache_size"`
	Hits     int     `json:"hits"`
	Misses   int     `json:"misses"`
	HitRate  float64 `json:"hit_rate"`
	Requests int     `json:"total_requests"`
}

type entry struct {
	answer    Answer
	expiresAt time.Time
}

// ResponseCache is a TTL cache keyed by the normalized question. Expired
// entries are dropped lazily on access and swept when the cache grows past
// its cap.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string]entry
	ttl        time.Duration
	maxEntries int
	hits       int
	misses     int
}

func New(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &ResponseCache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *ResponseCache) Get(key string) (Answer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return Answer{}, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return Answer{}, false
	}
	c.hits++
	return e.answer, true
}

func (c *ResponseCache) Set(key string, answer Answer) {
	if key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.sweepLocked()
	}
	c.entries[key] = entry{answer: answer, expiresAt: time.Now().Add(c.ttl)}
}

func (c *ResponseCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	requests := c.hits + c.misses
	rate := 0.0
	if requests > 0 {
		rate = float64(c.hits) / float64(requests)
	}
	return Stats{
		Size:     len(c.entries),
		Hits:     c.hits,
		Misses:   c.misses,
		HitRate:  rate,
		Requests: requests,
	}
}

// sweepLocked removes expired entries; if the cache is still full it drops
// the soonest-to-expire ones. Caller holds c.mu.
func (c *ResponseCache) sweepLocked() {
	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	for len(c.entries) >= c.maxEntries {
		var oldestKey string
		var oldestAt time.Time
		for key, e := range c.entries {
			if oldestKey == "" || e.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
		}
		delete(c.entries, oldestKey)
	}
}
