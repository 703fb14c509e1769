package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"

	"mindset-backend/utilities"
)

// maxDumpBody caps how much of a request body is logged.
const maxDumpBody = 4 << 10

// RequestDumpMiddleware logs each request at debug level. The Authorization
// header is never written out.
func RequestDumpMiddleware(log *utilities.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		headers := c.Request.Header.Clone()
		if headers.Get("Authorization") != "" {
			headers.Set("Authorization", "[redacted]")
		}
		body := bodyBytes
		if len(body) > maxDumpBody {
			body = body[:maxDumpBody]
		}

		log.Debug("request dump",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"headers", headers,
			"params", c.Params,
			"body", string(body),
			"request_id", c.GetString(ContextRequestID),
		)

		c.Next()
	}
}
