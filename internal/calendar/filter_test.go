package calendar

import (
	"testing"
	"time"

	"calendar-planner-api/internal/models"

	"github.com/stretchr/testify/require"
)

func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	now = func() time.Time { return at }
	t.Cleanup(func() { now = time.Now })
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterTasks_SearchIsCaseInsensitive(t *testing.T) {
	tasks := []models.Task{
		{ID: "1", Name: "Sprint Planning", Category: models.CategoryToDo, StartDate: oct(1), EndDate: oct(1)},
		{ID: "2", Name: "Design Review", Category: models.CategoryToDo, StartDate: oct(1), EndDate: oct(1)},
	}

	got := FilterTasks(tasks, Filter{Query: "plan", Categories: EveryCategory()})
	require.Equal(t, []string{"1"}, ids(got))

	got = FilterTasks(tasks, Filter{Query: "  REVIEW ", Categories: EveryCategory()})
	require.Equal(t, []string{"2"}, ids(got))
}

func TestFilterTasks_BlankQueryMatchesAll(t *testing.T) {
	tasks := []models.Task{task("a", 1, 1), task("b", 2, 3)}

	got := FilterTasks(tasks, Filter{Query: "   ", Categories: EveryCategory()})
	require.Equal(t, []string{"a", "b"}, ids(got))
}

func TestFilterTasks_EmptyCategoriesShowNothing(t *testing.T) {
	weeks := 4
	tasks := []models.Task{task("a", 1, 1), task("b", 2, 3)}

	require.Empty(t, FilterTasks(tasks, Filter{}))
	require.Empty(t, FilterTasks(tasks, Filter{Categories: NewCategorySet(), Weeks: &weeks}))
	require.NotNil(t, FilterTasks(tasks, Filter{}))
}

func TestFilterTasks_CategoryMembership(t *testing.T) {
	tasks := []models.Task{
		{ID: "todo", Category: models.CategoryToDo},
		{ID: "review", Category: models.CategoryReview},
		{ID: "done", Category: models.CategoryCompleted},
	}

	got := FilterTasks(tasks, Filter{Categories: NewCategorySet(models.CategoryReview, models.CategoryCompleted)})
	require.Equal(t, []string{"review", "done"}, ids(got))
}

func TestFilterTasks_TimeWindow(t *testing.T) {
	freezeNow(t, time.Date(2026, time.October, 1, 15, 30, 0, 0, time.UTC))
	weeks := 1

	tasks := []models.Task{
		task("today", 1, 1),
		task("far-and-long", 11, 31), // starts 10 days out
		task("edge", 8, 8),           // exactly one week out
		{ID: "running", Category: models.CategoryToDo,
			StartDate: time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC), EndDate: oct(5)},
	}

	got := FilterTasks(tasks, Filter{Categories: EveryCategory(), Weeks: &weeks})
	require.Equal(t, []string{"today", "edge", "running"}, ids(got))

	got = FilterTasks(tasks, Filter{Categories: EveryCategory()})
	require.Len(t, got, 4)
}

func TestFilterTasks_TimeWindowUsesFilterLocation(t *testing.T) {
	// 20:00 UTC on the 15th is already the 16th in Tokyo.
	freezeNow(t, time.Date(2026, time.October, 15, 20, 0, 0, 0, time.UTC))
	tokyo := time.FixedZone("JST", 9*60*60)
	weeks := 0

	tasks := []models.Task{{
		ID:        "tokyo-today",
		Category:  models.CategoryToDo,
		StartDate: time.Date(2026, time.October, 16, 0, 0, 0, 0, tokyo),
		EndDate:   time.Date(2026, time.October, 16, 0, 0, 0, 0, tokyo),
	}}

	got := FilterTasks(tasks, Filter{Categories: EveryCategory(), Weeks: &weeks, Location: tokyo})
	require.Equal(t, []string{"tokyo-today"}, ids(got))

	got = FilterTasks(tasks, Filter{Categories: EveryCategory(), Weeks: &weeks, Location: time.UTC})
	require.Empty(t, got)
}

func TestFilterTasks_PreservesOrder(t *testing.T) {
	tasks := []models.Task{task("c", 5, 5), task("a", 1, 1), task("b", 3, 3)}
	got := FilterTasks(tasks, AllTasks())
	require.Equal(t, []string{"c", "a", "b"}, ids(got))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("plan", nil, "")
	require.NoError(t, err)
	require.Equal(t, "plan", f.Query)
	require.Len(t, f.Categories, 4)
	require.Nil(t, f.Weeks)

	empty := ""
	f, err = ParseFilter("", &empty, "all")
	require.NoError(t, err)
	require.Empty(t, f.Categories)
	require.Nil(t, f.Weeks)

	some := "Review, In Progress"
	f, err = ParseFilter("", &some, "2")
	require.NoError(t, err)
	require.True(t, f.Categories.Has(models.CategoryReview))
	require.True(t, f.Categories.Has(models.CategoryInProgress))
	require.False(t, f.Categories.Has(models.CategoryToDo))
	require.Equal(t, 2, *f.Weeks)

	bad := "Backlog"
	_, err = ParseFilter("", &bad, "")
	require.ErrorIs(t, err, ErrInvalidCategory)

	_, err = ParseFilter("", nil, "-1")
	require.Error(t, err)
}
