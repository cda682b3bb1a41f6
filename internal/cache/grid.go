// Package cache memoizes month grids so repeated calendar requests for the
// same month do not rebuild the day sequence.
package cache

import (
	"slices"
	"sync"
	"time"

	"calendar-planner-api/internal/calendar"
)

// gridKey identifies one month grid.
type gridKey struct {
	year      int
	month     time.Month
	weekStart time.Weekday
	loc       string
}

// entry stores a grid and its absolute expiration timestamp.
type entry struct {
	days      []time.Time
	expiresAt time.Time // zero means no expiration
}

// GridCache is a map-backed, goroutine-safe cache of calendar.MonthDays results.
// Entries expire lazily after ttl; cleanup is via PurgeExpired.
type GridCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[gridKey]entry
}

// NewGridCache returns an empty cache. If ttl <= 0, entries do not expire.
func NewGridCache(ttl time.Duration) *GridCache {
	return &GridCache{
		ttl:   ttl,
		items: make(map[gridKey]entry),
	}
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Days returns the grid for the month containing ref, building it on a miss.
// The returned slice is a copy the caller may keep.
func (c *GridCache) Days(ref time.Time, weekStart time.Weekday) []time.Time {
	key := gridKey{year: ref.Year(), month: ref.Month(), weekStart: weekStart, loc: ref.Location().String()}

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if ok && (e.expiresAt.IsZero() || !now().After(e.expiresAt)) {
		return slices.Clone(e.days)
	}

	days := calendar.MonthDays(ref, weekStart)

	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = entry{days: days, expiresAt: exp}
	c.mu.Unlock()

	return slices.Clone(days)
}

// Len returns the number of non-expired grids currently stored.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, e := range c.items {
		if e.expiresAt.IsZero() || now().Before(e.expiresAt) {
			count++
		}
	}
	return count
}

// PurgeExpired scans and removes expired grids.
func (c *GridCache) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	nowTs := now()
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && nowTs.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
}
