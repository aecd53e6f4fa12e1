package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"schemagraph/internal/responses"
)

type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type HealthHandler struct {
	checker ReadinessChecker
}

func NewHealthHandler(checker ReadinessChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health handles GET /health. It never touches the database.
func (h *HealthHandler) Health(c *gin.Context) {
	responses.Success(c, http.StatusOK, gin.H{"ok": true})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.checker.Ready(c.Request.Context()); err != nil {
		responses.Fail(c, http.StatusServiceUnavailable, err, "Database unavailable")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"ok": true})
}
