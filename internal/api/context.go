package api

import (
	"github.com/gin-gonic/gin" // Gin web framework
)

// currentUserID extracts the authenticated subject ID stored by the JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID") // Get subject ID from context
	if !exists {
		return 0, false // Middleware did not run
	}
	id, ok := v.(uint) // Assert the stored type
	return id, ok
}

// currentIsAdmin reports whether the token carried the admin flag
func currentIsAdmin(c *gin.Context) bool {
	v, exists := c.Get("isAdmin") // Get admin flag from context
	return exists && v == true
}
