package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes {"success": true, ...data}.
func OK(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes {"success": false, "message": msg}.
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"success": false,
		"message": msg,
	})
}

// AbortFail is Fail for middleware.
func AbortFail(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{
		"success": false,
		"message": msg,
	})
}
