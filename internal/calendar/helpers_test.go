package calendar

import (
	"time"

	"calendar-planner-api/internal/models"
)

// oct returns midnight UTC of the given day in October 2026.
func oct(day int) time.Time {
	return time.Date(2026, time.October, day, 0, 0, 0, 0, time.UTC)
}

func task(id string, start, end int) models.Task {
	return models.Task{
		ID:        id,
		Name:      id,
		Category:  models.CategoryToDo,
		StartDate: oct(start),
		EndDate:   oct(end),
	}
}

// octDays returns October 1..n.
func octDays(n int) []time.Time {
	days := make([]time.Time, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, oct(d))
	}
	return days
}
