package httpapi

import "github.com/gin-gonic/gin"

// respondError writes the flat error body shared by every failure path.
func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// respondErrorDetails adds the underlying cause for unexpected failures.
func respondErrorDetails(c *gin.Context, status int, msg, details string) {
	c.JSON(status, gin.H{"error": msg, "details": details})
}
