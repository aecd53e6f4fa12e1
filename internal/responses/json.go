package responses

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Success writes data as the response body, unwrapped.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Fail logs err with request context and sends only the generic message to the client.
func Fail(c *gin.Context, statusCode int, err error, message string) {
	if err != nil {
		slog.ErrorContext(c.Request.Context(), message,
			"error", err,
			"status", statusCode,
			"path", c.FullPath(),
			"request_id", c.GetString(RequestIDKey),
		)
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "requestId"
