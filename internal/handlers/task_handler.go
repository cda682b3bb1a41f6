package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"calendar-planner-api/internal/calendar"
	"calendar-planner-api/internal/database"
	"calendar-planner-api/internal/logging"
	"calendar-planner-api/internal/middleware"
	"calendar-planner-api/internal/models"
	"calendar-planner-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Name      string              `json:"name" binding:"required"`
	Category  models.TaskCategory `json:"category"`
	StartDate string              `json:"startDate" binding:"required"`
	EndDate   string              `json:"endDate" binding:"required"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Name      *string              `json:"name"`
	Category  *models.TaskCategory `json:"category"`
	StartDate *string              `json:"startDate"`
	EndDate   *string              `json:"endDate"`
}

// MoveTaskRequest is the drop target of a drag: the day the task should now start on.
type MoveTaskRequest struct {
	Day string `json:"day" binding:"required"`
}

// loadUserTasks returns the user's tasks in creation order, which is the
// order ties are broken in when levels are assigned.
func loadUserTasks(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := database.GetDB().
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&tasks).Error
	return tasks, err
}

// findUserTask returns (nil, nil) when the task does not exist for this user.
func findUserTask(userID, taskID string) (*models.Task, error) {
	var task models.Task
	err := database.GetDB().Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// newTaskID derives an id from the creation timestamp, retrying on the
// unlikely collision with an existing task.
func newTaskID(db *gorm.DB) string {
	for {
		id := fmt.Sprintf("task-%d", time.Now().UnixNano())
		var n int64
		if err := db.Model(&models.Task{}).Where("id = ?", id).Count(&n).Error; err != nil || n == 0 {
			return id
		}
	}
}

// validateTask rejects what the edit form would: blank names, unknown
// categories and dates that do not parse. The span is normalized on success.
func validateTask(task *models.Task, start, end string) error {
	task.Name = strings.TrimSpace(task.Name)
	if task.Name == "" {
		return errors.New("name must not be empty")
	}
	if !task.Category.Valid() {
		return fmt.Errorf("%w: %q", calendar.ErrInvalidCategory, task.Category)
	}

	loc, _ := calendarSettings()
	if start != "" {
		d, err := calendar.ParseDay(start, loc)
		if err != nil {
			return fmt.Errorf("startDate: %w", err)
		}
		task.StartDate = d
	}
	if end != "" {
		d, err := calendar.ParseDay(end, loc)
		if err != nil {
			return fmt.Errorf("endDate: %w", err)
		}
		task.EndDate = d
	}
	task.StartDate, task.EndDate = calendar.NormalizeSpan(task.StartDate, task.EndDate)
	return nil
}

// filterFromQuery reads q, categories and weeks. A categories parameter that
// is present but empty selects nothing. The week window counts from today in
// the calendar zone.
func filterFromQuery(c *gin.Context) (calendar.Filter, error) {
	var categories *string
	if raw, ok := c.GetQuery("categories"); ok {
		categories = &raw
	}
	f, err := calendar.ParseFilter(c.Query("q"), categories, c.Query("weeks"))
	if err != nil {
		return calendar.Filter{}, err
	}
	f.Location, _ = calendarSettings()
	return f, nil
}

func unchanged(c *gin.Context, taskID string) {
	c.JSON(http.StatusOK, gin.H{
		"id":      taskID,
		"changed": false,
	})
}

/*
*
GetTasks handles GET /api/tasks
Returns the authenticated user's tasks matching q, categories and weeks.
Query params: page (default 1), limit (default 50), sort (asc|desc on start date, default asc).
*/
func GetTasks(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	filter, err := filterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	sortParam := strings.ToLower(c.DefaultQuery("sort", "asc"))

	order := "start_date asc, id asc"
	if sortParam == "desc" {
		order = "start_date desc, id desc"
	}

	var tasks []models.Task
	if err := database.GetDB().Where("user_id = ?", userID).Order(order).Find(&tasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch tasks",
		})
		return
	}

	matched := calendar.FilterTasks(tasks, filter)
	total := len(matched)
	from := min((page-1)*limit, total)
	to := min(from+limit, total)

	c.JSON(http.StatusOK, gin.H{
		"tasks": matched[from:to],
		"count": to - from, // number of items in this page
		"total": total,     // total matching tasks (all pages)
		"page":  page,
		"limit": limit,
		"sort":  sortParam,
	})
}

// GetTaskByID handles GET /api/tasks/:id
func GetTaskByID(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	task, err := findUserTask(userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, task)
}

/*
*
CreateTask handles POST /api/tasks
Creates a new task for the authenticated user. A reversed span is swapped.
*/
func CreateTask(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	category := req.Category
	if category == "" {
		category = models.CategoryToDo
	}

	task := models.Task{
		Name:     req.Name,
		Category: category,
		UserID:   userID,
	}
	if err := validateTask(&task, req.StartDate, req.EndDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := database.GetDB()
	task.ID = newTaskID(db)
	if err := db.Create(&task).Error; err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("failed to create task")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create task",
		})
		return
	}

	realtime.GetHub().Publish(userID, realtime.EventTaskCreated, task.ID)
	c.JSON(http.StatusCreated, task)
}

// UpdateTask handles PUT /api/tasks/:id
// Identity is preserved; an unknown id changes nothing.
func UpdateTask(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}
	taskID := c.Param("id")

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	existing, err := findUserTask(userID, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	if existing == nil {
		unchanged(c, taskID)
		return
	}

	updated := *existing
	if req.Name != nil {
		updated.Name = *req.Name
	}
	if req.Category != nil {
		updated.Category = *req.Category
	}
	var start, end string
	if req.StartDate != nil {
		start = *req.StartDate
		if strings.TrimSpace(start) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must not be empty"})
			return
		}
	}
	if req.EndDate != nil {
		end = *req.EndDate
		if strings.TrimSpace(end) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must not be empty"})
			return
		}
	}
	if err := validateTask(&updated, start, end); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := database.GetDB().Save(&updated).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update task",
		})
		return
	}

	realtime.GetHub().Publish(userID, realtime.EventTaskUpdated, updated.ID)
	c.JSON(http.StatusOK, updated)
}

// MoveTask handles PATCH /api/tasks/:id/move
// The task starts on the given day and keeps its length in days.
func MoveTask(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}
	taskID := c.Param("id")

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	loc, _ := calendarSettings()
	day, err := calendar.ParseDay(req.Day, loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := findUserTask(userID, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch task"})
		return
	}
	if existing == nil {
		unchanged(c, taskID)
		return
	}

	moved := calendar.MoveTask(*existing, day)
	if err := database.GetDB().Model(&moved).
		Select("start_date", "end_date").
		Updates(models.Task{StartDate: moved.StartDate, EndDate: moved.EndDate}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		return
	}

	logging.Debug().
		Str("task_id", moved.ID).
		Time("start", moved.StartDate).
		Int("duration_days", calendar.DurationDays(moved)).
		Msg("task moved")
	realtime.GetHub().Publish(userID, realtime.EventTaskMoved, moved.ID)
	c.JSON(http.StatusOK, moved)
}

// DeleteTask handles DELETE /api/tasks/:id
// Deleting an unknown id changes nothing.
func DeleteTask(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in token",
		})
		return
	}
	taskID := c.Param("id")

	result := database.GetDB().Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete task",
		})
		return
	}
	if result.RowsAffected == 0 {
		unchanged(c, taskID)
		return
	}

	realtime.GetHub().Publish(userID, realtime.EventTaskDeleted, taskID)
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      taskID,
		"changed": true,
	})
}

// GetStats handles GET /api/stats
// Returns the authenticated user's task counts per category.
func GetStats(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in token"})
		return
	}

	type row struct {
		Category string
		Count    int64
	}

	var rows []row
	if err := database.GetDB().Model(&models.Task{}).
		Select("category, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("category").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	// Initialize with zeros
	counts := make(map[string]int64, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		counts[string(cat)] = 0
	}
	var total int64
	for _, r := range rows {
		counts[r.Category] = r.Count
		total += r.Count
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": counts,
		"total":      total,
	})
}
