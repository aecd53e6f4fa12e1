package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"schemagraph/internal/observability"
)

// Metrics records request counts and latency keyed by the matched route template.
func Metrics(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}

	observability.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	observability.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
}
