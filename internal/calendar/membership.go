package calendar

import (
	"time"

	"calendar-planner-api/internal/models"
)

// IsTaskOnDay reports whether day falls within the task's inclusive span.
// Stored dates may carry time-of-day noise; only calendar dates are compared.
func IsTaskOnDay(task models.Task, day time.Time) bool {
	return spanOf(task).covers(dayNumber(day))
}

// DurationDays is the number of whole days between a task's start and end.
// Zero means a single-day task.
func DurationDays(task models.Task) int {
	return int(dayNumber(task.EndDate) - dayNumber(task.StartDate))
}

// span is a task reduced to the civil day numbers it covers.
type span struct {
	id         string
	start, end int64
}

func spanOf(task models.Task) span {
	return span{id: task.ID, start: dayNumber(task.StartDate), end: dayNumber(task.EndDate)}
}

func (s span) covers(day int64) bool {
	return day >= s.start && day <= s.end
}

func (s span) length() int64 {
	return s.end - s.start
}
