package calendar

import (
	"cmp"
	"slices"
	"time"

	"calendar-planner-api/internal/models"
)

// Levels maps a task id to the lane it occupies in every day cell it spans.
// A Levels value is built fresh by each AssignLevels call and is not modified
// afterwards.
type Levels map[string]int

// Of returns the level of the task, or 0 when it was never placed.
func (l Levels) Of(id string) int {
	return l[id]
}

// placement is a span locked to a level.
type placement struct {
	span
	level int
}

// AssignLevels gives every task a lane so that tasks sharing a day never share
// a lane. Multi-day tasks are placed first and keep one level across their
// whole span; single-day tasks then fill the lowest lanes left free on their
// day. days decides which days are checked for conflicts.
func AssignLevels(days []time.Time, tasks []models.Task) Levels {
	dayNums := make([]int64, len(days))
	for i, d := range days {
		dayNums[i] = dayNumber(d)
	}

	var multi, single []span
	for _, t := range tasks {
		s := spanOf(t)
		if s.length() == 0 {
			single = append(single, s)
		} else {
			multi = append(multi, s)
		}
	}

	locked, maxLevel := placeMultiDay(dayNums, multi, 0)
	filled, _ := placeSingleDay(dayNums, single, locked, maxLevel)

	levels := make(Levels, len(locked)+len(filled))
	for _, p := range locked {
		levels[p.id] = p.level
	}
	for _, p := range filled {
		levels[p.id] = p.level
	}
	return levels
}

// placeMultiDay locks each multi-day span to the lowest level that no
// previously locked span uses on any shared day. Spans are taken by start day,
// longest first on ties, otherwise in input order. maxLevel is the highest
// level in use so far; the updated value is returned.
func placeMultiDay(days []int64, spans []span, maxLevel int) ([]placement, int) {
	ordered := slices.Clone(spans)
	slices.SortStableFunc(ordered, func(a, b span) int {
		if c := cmp.Compare(a.start, b.start); c != 0 {
			return c
		}
		return cmp.Compare(b.length(), a.length())
	})

	locked := make([]placement, 0, len(ordered))
	for _, s := range ordered {
		level := maxLevel + 1
		for candidate := 0; candidate <= maxLevel; candidate++ {
			if levelFree(days, s, candidate, locked) {
				level = candidate
				break
			}
		}
		locked = append(locked, placement{span: s, level: level})
		maxLevel = max(maxLevel, level)
	}
	return locked, maxLevel
}

// levelFree reports whether no locked span holds level on any day of days
// that s covers.
func levelFree(days []int64, s span, level int, locked []placement) bool {
	for _, d := range days {
		if !s.covers(d) {
			continue
		}
		for _, p := range locked {
			if p.level == level && p.covers(d) {
				return false
			}
		}
	}
	return true
}

// placeSingleDay walks days in order and gives each single-day span on that
// day the lowest level in [0, maxLevel] that is neither held by a locked span
// nor already claimed that day. When none is free a new level above maxLevel
// is opened. Ties follow the input order of spans.
func placeSingleDay(days []int64, spans []span, locked []placement, maxLevel int) ([]placement, int) {
	placed := make(map[string]struct{}, len(locked)+len(spans))
	for _, p := range locked {
		placed[p.id] = struct{}{}
	}

	var filled []placement
	for _, d := range days {
		occupied := make(map[int]struct{})
		for _, p := range locked {
			if p.covers(d) {
				occupied[p.level] = struct{}{}
			}
		}

		for _, s := range spans {
			if !s.covers(d) {
				continue
			}
			if _, done := placed[s.id]; done {
				continue
			}

			level := -1
			for candidate := 0; candidate <= maxLevel; candidate++ {
				if _, taken := occupied[candidate]; !taken {
					level = candidate
					break
				}
			}
			if level < 0 {
				maxLevel++
				level = maxLevel
			}

			occupied[level] = struct{}{}
			placed[s.id] = struct{}{}
			filled = append(filled, placement{span: s, level: level})
		}
	}
	return filled, maxLevel
}
