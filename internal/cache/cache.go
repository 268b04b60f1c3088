// Package cache holds resolved stream URLs in memory, bounded by capacity and time-to-live.
//
// Recency is tracked by a least-recently-used list: both Get hits and Put move an
// entry to the front, and inserting past capacity evicts the entry at the back.
// Expiry is fixed from insertion by default; the Sliding policy re-arms it on every hit.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/simplelru"
)

// Policy decides whether a hit refreshes an entry's expiry.
type Policy int

const (
	// Fixed expiry: an entry lives exactly TTL from its last Put.
	Fixed Policy = iota
	// Sliding expiry: every hit extends the entry by TTL.
	Sliding
)

// ResolvedStream is a playable URL produced for a track.
type ResolvedStream struct {
	TrackID    string
	URL        string
	ResolvedAt time.Time
}

type entry struct {
	stream  ResolvedStream
	expires time.Time
}

// Options configure a Cache. Zero fields take defaults.
type Options struct {
	Capacity int
	TTL      time.Duration
	Policy   Policy
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
	// OnEvict observes every removal: capacity eviction, expiry and Remove.
	OnEvict func(trackID string)
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	lru     *lru.LRU[string, entry]
	ttl     time.Duration
	policy  Policy
	now     func() time.Time
	onEvict func(string)
}

const (
	DefaultCapacity = 30
	DefaultTTL      = 2 * time.Hour
)

// New creates a cache.
func New(options Options) *Cache {
	if options.Capacity <= 0 {
		options.Capacity = DefaultCapacity
	}
	if options.TTL <= 0 {
		options.TTL = DefaultTTL
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	c := &Cache{
		ttl:     options.TTL,
		policy:  options.Policy,
		now:     options.Now,
		onEvict: options.OnEvict,
	}

	// NewLRU only fails on a non-positive size
	c.lru, _ = lru.NewLRU[string, entry](options.Capacity, func(id string, _ entry) {
		if c.onEvict != nil {
			c.onEvict(id)
		}
	})

	return c
}

// Get returns the stream for trackID. Expired entries are purged and reported as a miss.
func (c *Cache) Get(trackID string) (ResolvedStream, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Peek first so that an expired entry does not get promoted before removal
	e, ok := c.lru.Peek(trackID)
	if !ok {
		return ResolvedStream{}, false
	}

	now := c.now()
	if !now.Before(e.expires) {
		c.lru.Remove(trackID)
		return ResolvedStream{}, false
	}

	c.lru.Get(trackID)
	if c.policy == Sliding {
		e.expires = now.Add(c.ttl)
		c.lru.Add(trackID, e)
	}

	return e.stream, true
}

// Put inserts or replaces the stream for trackID and restarts its expiry.
func (c *Cache) Put(trackID string, stream ResolvedStream) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stream.TrackID = trackID
	if stream.ResolvedAt.IsZero() {
		stream.ResolvedAt = c.now()
	}

	c.lru.Add(trackID, entry{
		stream:  stream,
		expires: c.now().Add(c.ttl),
	})
}

// Remove drops trackID if present.
func (c *Cache) Remove(trackID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(trackID)
}

// Purge removes every expired entry and returns how many were dropped.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var dropped int
	for _, id := range c.lru.Keys() {
		if e, ok := c.lru.Peek(id); ok && !now.Before(e.expires) {
			c.lru.Remove(id)
			dropped++
		}
	}

	return dropped
}

// Len counts entries, including expired ones not yet purged.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Keys returns track ids from least to most recently used.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Keys()
}
