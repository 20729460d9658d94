package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	dependencies map[string]Pinger
}

// NewHealthHandler constructs a HealthHandler.  Nil pingers are skipped so
// a deployment without Redis still reports healthy.
func NewHealthHandler(dependencies map[string]Pinger) *HealthHandler {
	return &HealthHandler{dependencies: dependencies}
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

// Readyz handles GET /readyz, pinging every registered dependency.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := 200
	checks := gin.H{}
	for name, dep := range h.dependencies {
		if dep == nil {
			continue
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			status = 503
			continue
		}
		checks[name] = "ok"
	}
	c.JSON(status, gin.H{"status": statusWord(status), "checks": checks})
}

func statusWord(status int) string {
	if status == 200 {
		return "ready"
	}
	return "unavailable"
}
