package middleware

import (
	"carbontrace/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TraceIDHeader carries the request id in and out
const TraceIDHeader = "X-Request-ID"

// TraceID tags the request context with the caller's X-Request-ID, or a new uuid
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(TraceIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), id))
		c.Header(TraceIDHeader, id)
		c.Next()
	}
}
