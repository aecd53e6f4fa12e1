package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemagraph/internal/responses"
)

const RequestIDHeader = "X-Request-ID"

// RequestID reuses an incoming X-Request-ID if it parses as a UUID, otherwise issues one.
func RequestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	c.Set(responses.RequestIDKey, id)
	c.Header(RequestIDHeader, id)

	c.Next()
}
