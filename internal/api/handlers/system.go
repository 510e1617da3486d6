package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/campustrack/internal/tracking"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

type SystemHandler struct {
	store  *tracking.DataStore
	checks map[string]Check
}

func NewSystemHandler(store *tracking.DataStore, checks map[string]Check) *SystemHandler {
	return &SystemHandler{store: store, checks: checks}
}

func (h *SystemHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *SystemHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if h.store.Loaded() {
		checks["snapshot"] = "ok"
	} else {
		checks["snapshot"] = "not loaded"
		healthy = false
	}

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			healthy = false
		} else {
			checks[name] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ready", false: "not ready"}[healthy],
		"checks": checks,
	})
}
