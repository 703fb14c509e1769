package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	// ContextRequestID is the gin context key holding the request id.
	ContextRequestID = "request_id"
)

// RequestID reuses an inbound X-Request-Id or assigns a new one and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextRequestID, reqID)
		c.Writer.Header().Set(HeaderRequestID, reqID)
		c.Next()
	}
}
