package calendar

import (
	"slices"
	"time"

	"calendar-planner-api/internal/models"
)

// TaskWithMetadata is a task as seen from one day cell.
type TaskWithMetadata struct {
	models.Task
	IsStart    bool `json:"isStart"`
	IsEnd      bool `json:"isEnd"`
	IsContinue bool `json:"isContinue"` // also present on the next day
	Level      int  `json:"level"`
}

// DayWithTasks holds the tasks active on Day ordered by level.
type DayWithTasks struct {
	Day   time.Time          `json:"day"`
	Tasks []TaskWithMetadata `json:"tasks"`
}

// MaxLevel returns the highest level used on the day, or -1 for an empty day.
func (d DayWithTasks) MaxLevel() int {
	if len(d.Tasks) == 0 {
		return -1
	}
	return d.Tasks[len(d.Tasks)-1].Level
}

// Slots returns one entry per level from 0 to MaxLevel. Levels without a task
// that day are nil so bars of multi-day tasks line up across cells.
func (d DayWithTasks) Slots() []*TaskWithMetadata {
	slots := make([]*TaskWithMetadata, d.MaxLevel()+1)
	for i := range d.Tasks {
		t := &d.Tasks[i]
		if slots[t.Level] == nil {
			slots[t.Level] = t
		}
	}
	return slots
}

// TasksForDay returns the tasks on day annotated with their boundary flags
// and level, in input order.
func TasksForDay(tasks []models.Task, day time.Time, levels Levels) []TaskWithMetadata {
	today := dayNumber(day)
	out := make([]TaskWithMetadata, 0)
	for _, task := range tasks {
		s := spanOf(task)
		if !s.covers(today) {
			continue
		}
		isEnd := today == s.end
		out = append(out, TaskWithMetadata{
			Task:       task,
			IsStart:    today == s.start,
			IsEnd:      isEnd,
			IsContinue: !isEnd && today+1 <= s.end,
			Level:      levels.Of(task.ID),
		})
	}
	return out
}

// ProjectDays builds the per-day view of tasks, each day sorted by level.
func ProjectDays(days []time.Time, tasks []models.Task, levels Levels) []DayWithTasks {
	out := make([]DayWithTasks, 0, len(days))
	for _, day := range days {
		dayTasks := TasksForDay(tasks, day, levels)
		slices.SortStableFunc(dayTasks, func(a, b TaskWithMetadata) int {
			return a.Level - b.Level
		})
		out = append(out, DayWithTasks{Day: day, Tasks: dayTasks})
	}
	return out
}

// Calendar is one pass of the pipeline over a set of visible days.
type Calendar struct {
	Days   []DayWithTasks
	Levels Levels
}

// BuildCalendar filters tasks, assigns levels over days and projects the
// result. It is safe to call whenever any input changes.
func BuildCalendar(days []time.Time, tasks []models.Task, f Filter) Calendar {
	visible := FilterTasks(tasks, f)
	levels := AssignLevels(days, visible)
	return Calendar{
		Days:   ProjectDays(days, visible, levels),
		Levels: levels,
	}
}
