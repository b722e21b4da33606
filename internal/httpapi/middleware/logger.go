package middleware

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// AccessLog replaces gin.Logger so request lines share the app logger.
func AccessLog(lg *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
			"rid", GetRequestID(c),
		}
		switch {
		case status >= 500:
			lg.Error("http", kv...)
		case status >= 400:
			lg.Warn("http", kv...)
		default:
			lg.Info("http", kv...)
		}
	}
}
