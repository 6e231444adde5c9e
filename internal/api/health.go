package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Upstream map[string]string `json:"upstream,omitempty"`
	Time     string            `json:"time"`
	Details  map[string]any    `json:"details,omitempty"`
}

// UpstreamReporter exposes an upstream client's circuit breaker state
type UpstreamReporter interface {
	Service() string
	BreakerState() upstream.CircuitState
}

// HealthHandler handles health check requests
type HealthHandler struct {
	db        *db.DB
	upstreams []UpstreamReporter
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(database *db.DB, upstreams ...UpstreamReporter) *HealthHandler {
	return &HealthHandler{db: database, upstreams: upstreams}
}

// Check handles GET /api/health. An open upstream breaker degrades the status
// but still answers 200; a database failure answers 503.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:  "ok",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Details: make(map[string]any),
	}

	if len(h.upstreams) > 0 {
		response.Upstream = make(map[string]string, len(h.upstreams))
		for _, u := range h.upstreams {
			state := u.BreakerState()
			response.Upstream[u.Service()] = state.String()
			if state == upstream.StateOpen {
				response.Status = "degraded"
			}
		}
	}

	if err := h.db.Health(ctx); err != nil {
		response.Status = "degraded"
		response.Database = "unhealthy"
		response.Details["database_error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	response.Database = "healthy"
	c.JSON(http.StatusOK, response)
}

// SetupHealthRoutes registers health check routes
func SetupHealthRoutes(apiGroup *gin.RouterGroup, database *db.DB, upstreams ...UpstreamReporter) {
	handler := NewHealthHandler(database, upstreams...)
	apiGroup.GET("/health", handler.Check)
}
