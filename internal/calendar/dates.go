// Package calendar lays tasks out on a month grid: it filters the task set,
// assigns every task a stable lane (level) and projects the result per day.
//
// Everything here is a pure function of its inputs. Callers re-run the whole
// pipeline whenever tasks, the visible days or the filters change.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// now is a small indirection to allow test stubbing.
var now = time.Now

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayNumber returns the civil date of t as a day count since the Unix epoch.
// Comparing day numbers ignores time-of-day noise and DST-length days.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return dayNumber(a) == dayNumber(b)
}

// NormalizeSpan truncates both ends to midnight and swaps them when end
// comes before start.
func NormalizeSpan(start, end time.Time) (time.Time, time.Time) {
	start, end = StartOfDay(start), StartOfDay(end)
	if dayNumber(end) < dayNumber(start) {
		start, end = end, start
	}
	return start, end
}

// MonthDays returns every day shown for the month containing ref: from the
// first day of the week holding the 1st through the last day of the week
// holding the month's final day.
func MonthDays(ref time.Time, weekStart time.Weekday) []time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)

	lead := (int(first.Weekday()) - int(weekStart) + 7) % 7
	trail := (int(weekStart) + 6 - int(last.Weekday()) + 7) % 7

	start := first.AddDate(0, 0, -lead)
	end := last.AddDate(0, 0, trail)

	days := make([]time.Time, 0, lead+last.Day()+trail)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// FormatSmartDate labels day relative to ref: Today, Tomorrow, Yesterday or
// a short date such as "Oct 15, 2026".
func FormatSmartDate(day, ref time.Time) string {
	switch dayNumber(day) - dayNumber(ref) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	}
	return day.Format("Jan 2, 2006")
}

// ParseDay accepts the date layouts clients send and returns midnight of that
// date in loc. Layouts carrying their own offset keep their calendar date.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	layouts := []string{
		"2006-01-02",  // ISO date
		time.RFC3339,  // full RFC3339
		"2 Jan 2006",  // e.g., 30 Oct 2025
		"02 Jan 2006", // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseMonth parses "2006-01" into the first day of that month in loc.
func ParseMonth(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t, nil
}
