package handlers

import (
	"sync"
	"time"

	"calendar-planner-api/internal/cache"
)

var (
	settingsMu sync.RWMutex
	location   = time.Local
	weekStart  = time.Sunday

	// month grids are pure functions of (month, week start, zone)
	grids = cache.NewGridCache(24 * time.Hour)
)

// ConfigureCalendar sets the zone used for "today" and new dates, and the
// first column of the month grid.
func ConfigureCalendar(loc *time.Location, start time.Weekday) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if loc != nil {
		location = loc
	}
	weekStart = start
}

func calendarSettings() (*time.Location, time.Weekday) {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return location, weekStart
}
