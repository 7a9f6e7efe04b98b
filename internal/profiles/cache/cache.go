// Package cache holds recently loaded profiles in process memory.
package cache

import (
	"sync"
	"time"

	"github.com/reoutfit/reoutfit-backend/internal/profiles/domain"
)

type entry struct {
	profile *domain.Profile
	expires time.Time
}

// Cache is a TTL memo keyed by user id. Values go in and come out as copies.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{ttl: ttl, now: time.Now, entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) Get(userID string) (*domain.Profile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, userID)
		return nil, false
	}
	return e.profile.Clone(), true
}

// Set stores p unless a live entry with a later UpdatedAt is already held,
// so a read that raced a write cannot replace the written profile.
func (c *Cache) Set(userID string, p *domain.Profile) {
	if c.ttl <= 0 || p == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[userID]; ok && now.Before(e.expires) && e.profile.UpdatedAt.After(p.UpdatedAt) {
		return
	}
	c.entries[userID] = entry{profile: p.Clone(), expires: now.Add(c.ttl)}
}

func (c *Cache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Sweep drops expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
