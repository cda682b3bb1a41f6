package routes

import (
	"net/http"

	"calendar-planner-api/internal/handlers"
	"calendar-planner-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes builds the planner API router.
func SetupRoutes() *gin.Engine {
	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Calendar Planner API is running",
		})
	})

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", handlers.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		// Task endpoints
		protectedRoutes.GET("/tasks", handlers.GetTasks)
		protectedRoutes.GET("/tasks/:id", handlers.GetTaskByID)
		protectedRoutes.POST("/tasks", handlers.CreateTask)
		protectedRoutes.PUT("/tasks/:id", handlers.UpdateTask)
		protectedRoutes.PATCH("/tasks/:id/move", handlers.MoveTask)
		protectedRoutes.DELETE("/tasks/:id", handlers.DeleteTask)

		// Calendar view
		protectedRoutes.GET("/calendar", handlers.GetCalendar)
		protectedRoutes.GET("/stats", handlers.GetStats)

		// Task change notifications
		protectedRoutes.GET("/ws", handlers.WebSocketHandler)
	}

	return ginRouter
}
