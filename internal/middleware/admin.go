package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdminOnlyMiddleware rejects requests whose token does not carry the
// admin flag. Admins are a separate identity class, so the flag baked
// into the token at login is authoritative for its 24h lifetime.
func AdminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("isAdmin") // Get admin flag from context
		// Check if flag exists and is set
		if !exists || isAdmin != true {
			// If not admin, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
