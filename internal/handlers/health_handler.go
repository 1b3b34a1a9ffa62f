package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/healthcover/service-approval-api/internal/models"
)

// HealthChecker reports whether a backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db HealthChecker
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.HealthCheck(ctx); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, models.HealthResponse{Status: "unhealthy", Database: "down"})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{Status: "healthy", Database: "up"})
}
