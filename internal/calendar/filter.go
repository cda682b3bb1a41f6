package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"calendar-planner-api/internal/models"
)

// ErrInvalidCategory is returned when a category name is not one of the fixed set.
var ErrInvalidCategory = errors.New("invalid category")

// CategorySet is the set of categories a filter lets through.
type CategorySet map[models.TaskCategory]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(categories ...models.TaskCategory) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// EveryCategory returns a set holding all four categories.
func EveryCategory() CategorySet {
	return NewCategorySet(models.AllCategories...)
}

// Has reports whether c is in the set.
func (s CategorySet) Has(c models.TaskCategory) bool {
	_, ok := s[c]
	return ok
}

// Filter holds the active search, category and time criteria.
// An empty Categories set shows nothing. A nil Weeks means no time limit.
// Location decides which calendar date counts as today; nil uses the
// process-local zone.
type Filter struct {
	Query      string
	Categories CategorySet
	Weeks      *int
	Location   *time.Location
}

// AllTasks is the filter a fresh view starts with: no query, every category,
// no time limit.
func AllTasks() Filter {
	return Filter{Categories: EveryCategory()}
}

// FilterTasks returns the tasks matching every clause of f, in input order.
func FilterTasks(tasks []models.Task, f Filter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	if len(f.Categories) == 0 {
		return out
	}

	query := strings.ToLower(strings.TrimSpace(f.Query))

	var limit int64
	if f.Weeks != nil {
		today := now()
		if f.Location != nil {
			today = today.In(f.Location)
		}
		limit = dayNumber(StartOfDay(today).AddDate(0, 0, 7*(*f.Weeks)))
	}

	for _, task := range tasks {
		if query != "" && !strings.Contains(strings.ToLower(task.Name), query) {
			continue
		}
		if !f.Categories.Has(task.Category) {
			continue
		}
		// Only the start counts; tasks already running always pass.
		if f.Weeks != nil && dayNumber(task.StartDate) > limit {
			continue
		}
		out = append(out, task)
	}
	return out
}

// ParseFilter builds a Filter from its textual form.
//
// categories is nil when the caller did not specify any, which selects every
// category; a non-nil empty string is the explicit empty selection. Names are
// comma separated. weeks is empty or "all" for no limit, otherwise a
// non-negative integer.
func ParseFilter(query string, categories *string, weeks string) (Filter, error) {
	f := Filter{Query: query, Categories: EveryCategory()}

	if categories != nil {
		f.Categories = NewCategorySet()
		for _, name := range strings.Split(*categories, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			c := models.TaskCategory(name)
			if !c.Valid() {
				return Filter{}, fmt.Errorf("%w: %q", ErrInvalidCategory, name)
			}
			f.Categories[c] = struct{}{}
		}
	}

	weeks = strings.TrimSpace(weeks)
	if weeks != "" && !strings.EqualFold(weeks, "all") {
		n, err := strconv.Atoi(weeks)
		if err != nil || n < 0 {
			return Filter{}, fmt.Errorf("invalid weeks %q", weeks)
		}
		f.Weeks = &n
	}
	return f, nil
}
