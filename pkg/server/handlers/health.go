package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/kgview"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	app     kgview.KGView
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(app kgview.KGView) *HealthHandler {
	return &HealthHandler{
		app:     app,
		started: time.Now(),
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "kgview",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
	})
}

// ReadinessCheck handles GET /ready. The service is ready once fixtures are
// loaded and the preference store answers.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ready",
		"service":   "kgview",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	}

	if h.app == nil {
		response["status"] = "not_ready"
		response["error"] = "kgview client not initialized"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	start := time.Now()
	if err := h.app.Ready(ctx); err != nil {
		response["status"] = "not_ready"
		response["error"] = err.Error()
		response["duration"] = time.Since(start).String()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	response["duration"] = time.Since(start).String()
	c.JSON(http.StatusOK, response)
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "kgview",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
