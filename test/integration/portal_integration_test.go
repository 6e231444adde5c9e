//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/akmovies/internal/api"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

func (p *testPortal) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	p.handler.ServeHTTP(w, req)
	return w
}

func TestPortal_WatchFlow(t *testing.T) {
	portal := setupPortal(t)
	adminToken := mintToken(t, "boss", testAdminEmail)
	viewer := mintToken(t, "viewer", "viewer@example.com")

	t.Run("AdminAddsServer", func(t *testing.T) {
		w := portal.do(t, http.MethodPost, "/api/admin/servers", adminToken, map[string]string{
			"name": "Alpha",
			"url":  "https://alpha.example",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("ViewerWatchesMovie", func(t *testing.T) {
		w := portal.do(t, http.MethodGet, "/api/watch/movie/550-fight-club", viewer, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp api.WatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Embeds, 1)
		assert.True(t, strings.HasPrefix(resp.Embeds[0].URL, "https://alpha.example/movie/550/"))

		details := resp.Details.(map[string]any)
		assert.Equal(t, "Fight Club", details["title"])
		assert.Equal(t, "https://image.example/original/logo.png", details["logoUrl"])
		assert.Equal(t, "https://image.example/w500/fc.jpg", details["posterUrl"])
	})

	t.Run("ViewerRecordsPlayAndBookmarks", func(t *testing.T) {
		w := portal.do(t, http.MethodPut, "/api/me/history/movie/550", viewer, map[string]any{"title": "Fight Club"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = portal.do(t, http.MethodPost, "/api/me/bookmarks/movie/550/toggle", viewer, map[string]any{"title": "Fight Club"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = portal.do(t, http.MethodGet, "/api/watch/movie/550", viewer, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp api.WatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Bookmarked)
		require.NotNil(t, resp.Resume)
		assert.Equal(t, "Fight Club", resp.Resume.Title)
	})

	t.Run("AdminSeesViewerHistory", func(t *testing.T) {
		w := portal.do(t, http.MethodGet, "/api/admin/users/viewer/history", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			Results []models.HistoryEntry `json:"results"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Results, 1)
		assert.Equal(t, "movie_550", body.Results[0].DocID)
	})
}

func TestPortal_AnimeAndSearch(t *testing.T) {
	portal := setupPortal(t)

	w := portal.do(t, http.MethodGet, "/api/watch/anime/154587?episode=3", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp api.WatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.AnimeURL, "https://anime.example/anime/154587/3/")
	require.NotNil(t, resp.AnimeNavigation)
	assert.Equal(t, 4, resp.AnimeNavigation.Next)

	w = portal.do(t, http.MethodGet, "/api/search?q=fight&include=anime", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page models.Page
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Results, 2)
	assert.Equal(t, "Fight Club", page.Results[0].Title)
}

func TestPortal_UpstreamFailuresOpenBreaker(t *testing.T) {
	portal := setupPortal(t)

	w := portal.do(t, http.MethodGet, "/api/titles/movie/404", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for i := 0; i < 2; i++ {
		w = portal.do(t, http.MethodGet, "/api/browse?tab=top_rated", "", nil)
		assert.Equal(t, http.StatusBadGateway, w.Code)
	}
	assert.Equal(t, upstream.StateOpen, portal.tmdb.BreakerState())

	w = portal.do(t, http.MethodGet, "/api/browse?tab=popular", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = portal.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "open", health.Upstream["tmdb"])
	assert.Equal(t, "closed", health.Upstream["anilist"])
}
