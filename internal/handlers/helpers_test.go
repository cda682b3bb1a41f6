package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calendar-planner-api/internal/auth"
	"calendar-planner-api/internal/database"
	"calendar-planner-api/internal/middleware"
	"calendar-planner-api/internal/models"
	"calendar-planner-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the handlers against a fresh in-memory database and
// returns a token for user u-1.
func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db
	ConfigureCalendar(time.UTC, time.Sunday)

	r := gin.New()
	r.POST("/api/login", Login)
	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.GET("/tasks", GetTasks)
	api.GET("/tasks/:id", GetTaskByID)
	api.POST("/tasks", CreateTask)
	api.PUT("/tasks/:id", UpdateTask)
	api.PATCH("/tasks/:id/move", MoveTask)
	api.DELETE("/tasks/:id", DeleteTask)
	api.GET("/calendar", GetCalendar)
	api.GET("/stats", GetStats)

	token, err := auth.GenerateToken("u-1", "alice")
	require.NoError(t, err)
	return r, token
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func day(d int) time.Time {
	return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC)
}

func seedTask(t *testing.T, id, name string, category models.TaskCategory, start, end int) models.Task {
	t.Helper()
	task := models.Task{
		ID:        id,
		Name:      name,
		Category:  category,
		StartDate: day(start),
		EndDate:   day(end),
		UserID:    "u-1",
	}
	require.NoError(t, database.GetDB().Create(&task).Error)
	return task
}
