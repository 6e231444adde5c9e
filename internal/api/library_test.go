package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/models"
)

func TestLibraryAPI_RequiresUser(t *testing.T) {
	env := setupTestEnv(t)

	for _, path := range []string{"/api/me", "/api/me/history", "/api/me/bookmarks"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := env.do(t, http.MethodGet, "/api/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLibraryAPI_History(t *testing.T) {
	env := setupTestEnv(t)
	token := mintToken(t, "viewer", "viewer@example.com")

	t.Run("RecordPlay", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/api/me/history/movie/550", token, PlayRequest{Title: "Fight Club", PosterPath: "/p.jpg"})
		require.Equal(t, http.StatusOK, w.Code)

		entry := decode[models.HistoryEntry](t, w)
		assert.Equal(t, "movie_550", entry.DocID)
		assert.Equal(t, 1, entry.Season)
		assert.Equal(t, 1, entry.Episode)
		assert.Equal(t, 1, env.conn.published(events.SubjectWatchStarted))
	})

	t.Run("UpdatePosition_CreatesMissingEntry", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/me/history/tv/1399/position", token, PlayRequest{Title: "Show", Season: 3, Episode: 4})
		require.Equal(t, http.StatusOK, w.Code)

		entry := decode[models.HistoryEntry](t, w)
		assert.Equal(t, 3, entry.Season)
		assert.Equal(t, 4, entry.Episode)
	})

	t.Run("ListAndCount", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/me/history", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string][]map[string]any](t, w)
		var keys []any
		for _, item := range body["results"] {
			keys = append(keys, item["uniqueKey"])
		}
		assert.ElementsMatch(t, []any{"continue_movie_550", "continue_tv_1399"}, keys)

		w = env.do(t, http.MethodGet, "/api/me/history/count", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 2, decode[map[string]int](t, w)["count"])
	})

	t.Run("Progress", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/me/history/movie/550/progress", token, map[string]any{"progress": 42.5})
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/me/history/movie/550", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		entry := decode[models.HistoryEntry](t, w)
		require.NotNil(t, entry.Progress)
		assert.InDelta(t, 42.5, *entry.Progress, 0.001)

		w = env.do(t, http.MethodPatch, "/api/me/history/movie/550/progress", token, map[string]any{"progress": 150})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodPatch, "/api/me/history/movie/550/progress", token, map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodPatch, "/api/me/history/movie/999/progress", token, map[string]any{"progress": 10})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("OtherUsersAreIsolated", func(t *testing.T) {
		other := mintToken(t, "other", "other@example.com")
		w := env.do(t, http.MethodGet, "/api/me/history/count", other, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 0, decode[map[string]int](t, w)["count"])
	})

	t.Run("Remove", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/me/history/movie/550", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodDelete, "/api/me/history/movie/550", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Clear", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/me/history", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 1, decode[map[string]any](t, w)["removed"])

		w = env.do(t, http.MethodGet, "/api/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]any](t, w)
		assert.EqualValues(t, 0, body["historyCount"])
		assert.Equal(t, "viewer", body["user"].(map[string]any)["uid"])
	})
}

func TestLibraryAPI_Bookmarks(t *testing.T) {
	env := setupTestEnv(t)
	token := mintToken(t, "viewer", "viewer@example.com")
	card := models.Card{ID: 550, Title: "Fight Club", MediaType: models.MediaTypeMovie, PosterPath: "/p.jpg"}

	w := env.do(t, http.MethodPost, "/api/me/bookmarks", token, card)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "movie_550", decode[models.Bookmark](t, w).DocID)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks", token, card)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_bookmarked", decode[ErrorResponse](t, w).Error)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks", token, models.Card{Title: "No id"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/me/bookmarks/movie/550", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[BookmarkStatusResponse](t, w).Bookmarked)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks/movie/550/toggle", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[BookmarkStatusResponse](t, w).Bookmarked)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks/tv/1399-show/toggle", token, models.Card{Name: "Show"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[BookmarkStatusResponse](t, w).Bookmarked)
	assert.Equal(t, 2, env.conn.published(events.SubjectBookmarkToggled))

	w = env.do(t, http.MethodGet, "/api/me/bookmarks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string][]models.Bookmark](t, w)["results"]
	require.Len(t, list, 1)
	assert.Equal(t, "tv_1399", list[0].DocID)
	assert.Equal(t, "Show", list[0].Title)

	w = env.do(t, http.MethodDelete, "/api/me/bookmarks/tv/1399", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, "/api/me/bookmarks/tv/1399", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLibraryAPI_ToggleBookmarkBodies(t *testing.T) {
	env := setupTestEnv(t)
	token := mintToken(t, "viewer", "viewer@example.com")

	toggleChunked := func() *httptest.ResponseRecorder {
		// an unknown-length empty body arrives with ContentLength -1
		req := httptest.NewRequest(http.MethodPost, "/api/me/bookmarks/movie/550/toggle", io.MultiReader())
		require.Equal(t, int64(-1), req.ContentLength)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := toggleChunked()
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode[ErrorResponse](t, w).Error)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks/movie/550/toggle", token, models.Card{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks/movie/550/toggle", token, models.Card{Title: "Fight Club"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[BookmarkStatusResponse](t, w).Bookmarked)

	w = toggleChunked()
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[BookmarkStatusResponse](t, w).Bookmarked)

	w = env.do(t, http.MethodPost, "/api/me/bookmarks/movie/550/toggle", token, "not a card")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWatch_ReportsBookmark(t *testing.T) {
	env := setupTestEnv(t)
	token := mintToken(t, "viewer", "viewer@example.com")

	w := env.do(t, http.MethodPost, "/api/me/bookmarks/movie/550/toggle", token, models.Card{Title: "Fight Club"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/watch/movie/550", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[WatchResponse](t, w).Bookmarked)
}
