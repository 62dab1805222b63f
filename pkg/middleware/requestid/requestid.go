package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// Header carries the request id to clients and upstream proxies.
	Header = "X-Request-ID"

	contextKey = "requestID"
)

// Middleware propagates an inbound X-Request-ID or assigns a fresh one.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// Value returns the request id for the current request, empty when absent.
func Value(c *gin.Context) string {
	if raw, ok := c.Get(contextKey); ok {
		if id, ok := raw.(string); ok {
			return id
		}
	}
	return ""
}
