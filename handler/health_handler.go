package handler

import (
	"context"
	"time"

	"secondbrain/utils"

	"github.com/gin-gonic/gin"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	startedAt time.Time
	checks    map[string]HealthCheck
}

func NewHealthHandler(startedAt time.Time, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, checks: checks}
}

// Health reports the state of every dependency, process uptime and CPU
// usage. Any failing dependency turns the response into a 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	healthy := true
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			healthy = false
			results[name] = "unavailable: " + err.Error()
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).Round(time.Second).String(),
		"cpuUsage": utils.GetCPUUsage(ctx),
		"checks":   results,
	}
	if !healthy {
		body["status"] = "degraded"
		utils.ServiceUnavailable(c, body)
		return
	}

	utils.Success(c, body)
}
