package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"schemagraph/internal/responses"
)

// Logger emits one structured line per request.
func Logger(c *gin.Context) {
	start := time.Now()

	c.Next()

	status := c.Writer.Status()
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	slog.Log(c.Request.Context(), level, "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"latency_ms", time.Since(start).Milliseconds(),
		"client_ip", c.ClientIP(),
		"request_id", c.GetString(responses.RequestIDKey),
	)
}
