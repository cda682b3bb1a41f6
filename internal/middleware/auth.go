package middleware

import (
	"net/http"
	"strings"

	"calendar-planner-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// JWTAuthMiddleware validates the bearer token and stores the caller in the context.
// Browsers cannot set headers on websocket upgrades, so a "token" query
// parameter is accepted as a fallback.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if after, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			tokenString = strings.TrimSpace(after)
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization token is required",
			})
			return
		}

		claims, err := auth.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id, or "" outside protected routes.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
