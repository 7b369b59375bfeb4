package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// contextKey is the gin context key holding the request ID.
const contextKey = "request_id"

// RequestID assigns a unique ID to each request, reusing an incoming
// X-Request-ID header when present. The ID is echoed in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the request ID assigned by the middleware, or an
// empty string.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(contextKey)
}
