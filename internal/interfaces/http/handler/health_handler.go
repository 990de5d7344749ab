package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// healthCheckTimeout bounds each dependency ping
const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency that can report its availability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the availability of the database and the cache
type HealthHandler struct {
	checks map[string]Pinger
	now    func() time.Time
}

// NewHealthHandler creates a HealthHandler. Nil checks are skipped.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	checks := make(map[string]Pinger, 2)
	if db != nil {
		checks["database"] = db
	}
	if cache != nil {
		checks["cache"] = cache
	}
	return &HealthHandler{checks: checks, now: time.Now}
}

// Check pings every dependency and answers 503 when any of them fails
//
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	reqLog := logger.GetGinLogger(c)
	body := gin.H{"time": h.now().Format(time.RFC3339)}
	healthy := true

	for name, dep := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		err := dep.Ping(ctx)
		cancel()
		if err != nil {
			reqLog.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			body[name] = "error"
			healthy = false
			continue
		}
		body[name] = "ok"
	}

	if !healthy {
		body["status"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	body["status"] = "healthy"
	c.JSON(http.StatusOK, body)
}
