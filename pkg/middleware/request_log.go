package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mindset-backend/utilities"
)

func RequestLogger(log *utilities.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if reqID := c.GetString(ContextRequestID); reqID != "" {
			fields = append(fields, "request_id", reqID)
		}
		if userID := utilities.UserID(c); userID != 0 {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
