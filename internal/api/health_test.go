package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

type fakeReporter struct {
	name  string
	state upstream.CircuitState
}

func (f fakeReporter) Service() string                     { return f.name }
func (f fakeReporter) BreakerState() upstream.CircuitState { return f.state }

func TestHealth(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name      string
		upstreams []UpstreamReporter
		status    string
	}{
		{"all closed", []UpstreamReporter{fakeReporter{"tmdb", upstream.StateClosed}, fakeReporter{"anilist", upstream.StateHalfOpen}}, "ok"},
		{"breaker open", []UpstreamReporter{fakeReporter{"tmdb", upstream.StateOpen}}, "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			SetupHealthRoutes(router.Group("/api"), env.db, tt.upstreams...)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
			require.Equal(t, http.StatusOK, w.Code)

			resp := decode[HealthResponse](t, w)
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, "healthy", resp.Database)
			assert.Len(t, resp.Upstream, len(tt.upstreams))
		})
	}
}

func TestHealth_DatabaseDown(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.db.Close())

	w := env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "unhealthy", resp.Database)
	assert.Contains(t, resp.Details, "database_error")
}
