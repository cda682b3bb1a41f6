package handlers

import (
	"net/http"
	"time"

	"calendar-planner-api/internal/calendar"
	"calendar-planner-api/internal/middleware"
	"calendar-planner-api/internal/models"

	"github.com/gin-gonic/gin"
)

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date     string                       `json:"date"`
	InMonth  bool                         `json:"inMonth"`
	IsToday  bool                         `json:"isToday"`
	MaxLevel int                          `json:"maxLevel"`
	Tasks    []calendar.TaskWithMetadata  `json:"tasks"`
	Slots    []*calendar.TaskWithMetadata `json:"slots"` // null entries are empty rows
}

// CalendarResponse is the projected month.
type CalendarResponse struct {
	Month     string          `json:"month"`
	WeekStart string          `json:"weekStart"`
	Days      []CalendarDay   `json:"days"`
	Levels    calendar.Levels `json:"levels"`
}

// BuildMonth runs the calendar pipeline for the month containing ref.
func BuildMonth(ref time.Time, tasks []models.Task, filter calendar.Filter) CalendarResponse {
	loc, start := calendarSettings()
	ref = ref.In(loc)
	today := time.Now().In(loc)

	days := grids.Days(ref, start)
	cal := calendar.BuildCalendar(days, tasks, filter)

	out := CalendarResponse{
		Month:     ref.Format("2006-01"),
		WeekStart: start.String(),
		Days:      make([]CalendarDay, 0, len(cal.Days)),
		Levels:    cal.Levels,
	}
	for _, d := range cal.Days {
		out.Days = append(out.Days, CalendarDay{
			Date:     d.Day.Format("2006-01-02"),
			InMonth:  d.Day.Month() == ref.Month(),
			IsToday:  calendar.SameDay(d.Day, today),
			MaxLevel: d.MaxLevel(),
			Tasks:    d.Tasks,
			Slots:    d.Slots(),
		})
	}
	return out
}

// GetCalendar handles GET /api/calendar
// Query params: month (YYYY-MM, default current month), q, categories, weeks.
func GetCalendar(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	loc, _ := calendarSettings()
	ref := time.Now().In(loc)
	if month := c.Query("month"); month != "" {
		parsed, err := calendar.ParseMonth(month, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ref = parsed
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := loadUserTasks(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, BuildMonth(ref, tasks, filter))
}
