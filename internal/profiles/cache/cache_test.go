package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoutfit/reoutfit-backend/internal/profiles/domain"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(ttl time.Duration) (*Cache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	return New(ttl, WithClock(clock.Now)), clock
}

func name(s string) *string { return &s }

func TestGetSetExpiry(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("user-a", &domain.Profile{UserID: "user-a", DisplayName: name("Ada")})

	got, ok := c.Get("user-a")
	require.True(t, ok)
	assert.Equal(t, "Ada", *got.DisplayName)

	clock.Advance(time.Minute)
	_, ok = c.Get("user-a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestSetKeepsNewerProfile(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	written := clock.Now()

	c.Set("user-a", &domain.Profile{UserID: "user-a", DisplayName: name("New"), UpdatedAt: written})
	c.Set("user-a", &domain.Profile{UserID: "user-a", DisplayName: name("Old"), UpdatedAt: written.Add(-time.Second)})

	got, ok := c.Get("user-a")
	require.True(t, ok)
	assert.Equal(t, "New", *got.DisplayName)

	clock.Advance(time.Minute)
	c.Set("user-a", &domain.Profile{UserID: "user-a", DisplayName: name("Old"), UpdatedAt: written.Add(-time.Second)})
	got, ok = c.Get("user-a")
	require.True(t, ok, "an expired entry does not block a reload")
	assert.Equal(t, "Old", *got.DisplayName)
}

func TestStoresCopies(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	p := &domain.Profile{UserID: "user-a", DisplayName: name("Ada")}
	c.Set("user-a", p)
	*p.DisplayName = "changed after set"

	got, _ := c.Get("user-a")
	*got.DisplayName = "changed after get"

	again, _ := c.Get("user-a")
	assert.Equal(t, "Ada", *again.DisplayName)
}

func TestInvalidateAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("user-a", &domain.Profile{UserID: "user-a"})
	c.Set("user-b", &domain.Profile{UserID: "user-b"})

	c.Invalidate("user-a")
	_, ok := c.Get("user-a")
	assert.False(t, ok)
	_, ok = c.Get("user-b")
	assert.True(t, ok)

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestSweep(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("old", &domain.Profile{UserID: "old"})
	clock.Advance(45 * time.Second)
	c.Set("fresh", &domain.Profile{UserID: "fresh"})
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestZeroTTLDisablesCaching(t *testing.T) {
	c, _ := newTestCache(0)
	c.Set("user-a", &domain.Profile{UserID: "user-a"})
	_, ok := c.Get("user-a")
	assert.False(t, ok)
}
