package utilities

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// AuthMiddleware ensures each request carries a valid bearer token
func AuthMiddleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || strings.TrimSpace(tokenStr) == "" {
			abortUnauthorized(c, "authorization header must be a bearer token")
			return
		}
		claims, err := tokens.ValidateToken(strings.TrimSpace(tokenStr))
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}

		// Store claims in context for later use
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c *gin.Context) uint {
	return c.GetUint(ContextUserID)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"code": "unauthorized", "message": message},
	})
}
