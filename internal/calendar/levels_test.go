package calendar

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"calendar-planner-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestAssignLevels_StackedOverlap(t *testing.T) {
	tasks := []models.Task{
		task("A", 1, 5),
		task("B", 3, 4),
		task("C", 3, 3),
	}

	levels := AssignLevels(octDays(31), tasks)

	require.Equal(t, 0, levels["A"])
	require.Equal(t, 1, levels["B"])
	require.Equal(t, 2, levels["C"]) // 0 and 1 are held by A and B on the 3rd
}

func TestAssignLevels_SingleDayBackfillsUnderLockedTask(t *testing.T) {
	tasks := []models.Task{
		task("E", 5, 15),
		task("D", 10, 20),
		task("F", 18, 18),
	}

	levels := AssignLevels(octDays(31), tasks)

	require.Equal(t, 0, levels["E"])
	require.Equal(t, 1, levels["D"])
	require.Equal(t, 0, levels["F"])

	cal := ProjectDays(octDays(31), tasks, levels)
	for _, day := range cal[9:20] { // Oct 10..20
		var found bool
		for _, tm := range day.Tasks {
			if tm.ID == "D" {
				found = true
				require.Equal(t, 1, tm.Level, "D moved on %s", day.Day.Format("Jan 2"))
			}
		}
		require.True(t, found)
	}
}

func TestAssignLevels_NoOverlapAllZero(t *testing.T) {
	tasks := []models.Task{
		task("a", 1, 3),
		task("b", 4, 4),
		task("c", 5, 9),
		task("d", 10, 10),
		task("e", 11, 20),
	}

	levels := AssignLevels(octDays(31), tasks)

	require.Len(t, levels, len(tasks))
	for id, level := range levels {
		require.Zero(t, level, "task %s", id)
	}
}

func TestAssignLevels_LongerTaskFirstOnSameStart(t *testing.T) {
	tasks := []models.Task{
		task("short", 2, 3),
		task("long", 2, 9),
	}

	levels := AssignLevels(octDays(31), tasks)

	require.Equal(t, 0, levels["long"])
	require.Equal(t, 1, levels["short"])
}

func TestAssignLevels_DisjointMultiDayShareLevel(t *testing.T) {
	tasks := []models.Task{
		task("first", 1, 4),
		task("second", 5, 8),
	}

	levels := AssignLevels(octDays(31), tasks)

	require.Equal(t, 0, levels["first"])
	require.Equal(t, 0, levels["second"])
}

func TestAssignLevels_FreedLevelIsNotCompacted(t *testing.T) {
	tasks := []models.Task{
		task("top", 1, 3),
		task("below", 2, 8),
	}

	levels := AssignLevels(octDays(31), tasks)
	require.Equal(t, 1, levels["below"])

	days := ProjectDays(octDays(31), tasks, levels)
	oct5 := days[4]
	require.Len(t, oct5.Tasks, 1)
	require.Equal(t, 1, oct5.Tasks[0].Level)
	require.Nil(t, oct5.Slots()[0])
}

func TestAssignLevels_SingleDayTiesFollowInputOrder(t *testing.T) {
	tasks := []models.Task{
		task("z", 7, 7),
		task("y", 7, 7),
		task("x", 7, 7),
		task("w", 8, 8),
	}

	levels := AssignLevels(octDays(31), tasks)

	require.Equal(t, 0, levels["z"])
	require.Equal(t, 1, levels["y"])
	require.Equal(t, 2, levels["x"])
	require.Equal(t, 0, levels["w"])
}

func TestAssignLevels_OnlyVisibleDaysConflict(t *testing.T) {
	tasks := []models.Task{
		task("left", 5, 10),
		task("right", 10, 15),
	}
	// The only shared day is the 10th; leave it out of the visible range.
	days := append(octDays(9), oct(11), oct(12), oct(13), oct(14), oct(15))

	levels := AssignLevels(days, tasks)

	require.Equal(t, 0, levels["left"])
	require.Equal(t, 0, levels["right"])
}

func TestAssignLevels_SingleDayOutsideRangeUnplaced(t *testing.T) {
	levels := AssignLevels(octDays(10), []models.Task{task("late", 25, 25)})
	_, ok := levels["late"]
	require.False(t, ok)
	require.Zero(t, levels.Of("late"))
}

func TestAssignLevels_EmptyInputs(t *testing.T) {
	require.Empty(t, AssignLevels(nil, nil))
	require.Empty(t, AssignLevels(octDays(31), nil))
}

func TestAssignLevels_ReturnsFreshMap(t *testing.T) {
	tasks := []models.Task{task("A", 1, 5), task("B", 3, 4)}

	first := AssignLevels(octDays(31), tasks)
	first["A"] = 42
	second := AssignLevels(octDays(31), tasks)

	require.Equal(t, 0, second["A"])
}

func TestPlaceMultiDay_CarriesMaxLevel(t *testing.T) {
	days := []int64{dayNumber(oct(1)), dayNumber(oct(2)), dayNumber(oct(3))}
	spans := []span{spanOf(task("a", 1, 3)), spanOf(task("b", 1, 2))}

	locked, maxLevel := placeMultiDay(days, spans, 0)

	require.Len(t, locked, 2)
	require.Equal(t, 1, maxLevel)

	filled, maxLevel := placeSingleDay(days, []span{spanOf(task("c", 2, 2))}, locked, maxLevel)
	require.Equal(t, 2, maxLevel)
	require.Equal(t, []placement{{span: spanOf(task("c", 2, 2)), level: 2}}, filled)
}

func TestAssignLevels_RandomSetsNeverCollide(t *testing.T) {
	days := octDays(31)
	rng := rand.New(rand.NewPCG(7, 11))

	for round := 0; round < 200; round++ {
		n := 1 + rng.IntN(25)
		tasks := make([]models.Task, 0, n)
		for i := 0; i < n; i++ {
			start := 1 + rng.IntN(31)
			end := start
			if rng.IntN(2) == 0 {
				end = min(31, start+rng.IntN(8))
			}
			tasks = append(tasks, task(fmt.Sprintf("r%d-%d", round, i), start, end))
		}

		levels := AssignLevels(days, tasks)
		require.Len(t, levels, n)

		for i := range tasks {
			for j := i + 1; j < len(tasks); j++ {
				a, b := spanOf(tasks[i]), spanOf(tasks[j])
				if a.start <= b.end && b.start <= a.end {
					require.NotEqual(t, levels[a.id], levels[b.id],
						"round %d: %s and %s overlap on the same level", round, a.id, b.id)
				}
			}
		}

		// A multi-day task shows up at the same level on every day it spans.
		for _, day := range ProjectDays(days, tasks, levels) {
			for _, tm := range day.Tasks {
				require.Equal(t, levels[tm.ID], tm.Level)
			}
		}
	}
}
