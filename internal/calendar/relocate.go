package calendar

import (
	"slices"
	"time"

	"calendar-planner-api/internal/models"
)

// MoveTask returns task starting on day with its original duration kept.
func MoveTask(task models.Task, day time.Time) models.Task {
	duration := DurationDays(task)
	task.StartDate = StartOfDay(day)
	task.EndDate = task.StartDate.AddDate(0, 0, duration)
	return task
}

// Relocate returns a new task slice with the task identified by id moved to
// start on day. An unknown id leaves tasks untouched and returns it as is.
func Relocate(tasks []models.Task, id string, day time.Time) []models.Task {
	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
	if idx < 0 {
		return tasks
	}
	out := slices.Clone(tasks)
	out[idx] = MoveTask(out[idx], day)
	return out
}
