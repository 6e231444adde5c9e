package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/catalog"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

func TestCatalogAPI(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("Home", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/home", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		feed := decode[catalog.HomeFeed](t, w)
		assert.Len(t, feed.TrendingToday, 10)
		assert.NotEmpty(t, feed.PopularMovies)
		assert.NotEmpty(t, feed.TrendingAnime)
		assert.Empty(t, feed.FailedSections)
	})

	t.Run("Browse_DefaultsToPopularMovies", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/browse", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[models.Page](t, w)
		assert.Len(t, page.Results, 20)
		assert.True(t, page.HasMore)
	})

	t.Run("Browse_Genre", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/browse?type=tv&genre=18&page=2", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Browse_InvalidInput", func(t *testing.T) {
		tests := []struct {
			path string
			code string
		}{
			{"/api/browse?type=book", "invalid_media_type"},
			{"/api/browse?type=tv&tab=upcoming", "invalid_request"},
			{"/api/browse?type=anime", "invalid_request"},
			{"/api/browse?genre=abc", "invalid_genre"},
		}
		for _, tt := range tests {
			w := env.do(t, http.MethodGet, tt.path, "", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, tt.path)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Error, tt.path)
		}
	})

	t.Run("Genres", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/genres", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		genres := decode[struct {
			catalog.GenreLists
			Tabs map[string][]string `json:"tabs"`
		}](t, w)
		require.Len(t, genres.Movie, 1)
		assert.Equal(t, "Action", genres.Movie[0].Name)
		assert.Equal(t, []string{"popular", "top_rated", "now_playing", "upcoming"}, genres.Tabs["movie"])
		assert.Equal(t, []string{"popular"}, genres.Tabs["tv"])
	})

	t.Run("Search_PublishesEvent", func(t *testing.T) {
		before := env.conn.published(events.SubjectSearchPerformed)

		w := env.do(t, http.MethodGet, "/api/search?q=inception", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		page := decode[models.Page](t, w)
		require.Len(t, page.Results, 1)
		assert.Equal(t, "Inception", page.Results[0].Title)
		assert.Equal(t, before+1, env.conn.published(events.SubjectSearchPerformed))
	})

	t.Run("Search_ShortQuery", func(t *testing.T) {
		before := env.conn.published(events.SubjectSearchPerformed)

		w := env.do(t, http.MethodGet, "/api/search?q=a", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, decode[models.Page](t, w).Results)
		assert.Equal(t, before, env.conn.published(events.SubjectSearchPerformed))
	})

	t.Run("Title_Movie", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/titles/movie/550-fight-club", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string]any](t, w)
		assert.Equal(t, "movie_550", body["uniqueKey"])
		assert.Equal(t, "/watch/movie/550-movie", body["watchPath"])
		assert.Equal(t, "2h 19m", body["runtimeText"])
		assert.Equal(t, "PG-13", body["contentRating"])
	})

	t.Run("Title_Anime", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/titles/anime/154587", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string]any](t, w)
		card := body["card"].(map[string]any)
		assert.Equal(t, "Frieren", card["title"])
	})

	t.Run("Title_NotFound", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/titles/movie/404", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Title_BadParams", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/titles/book/1", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodGet, "/api/titles/movie/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_id", decode[ErrorResponse](t, w).Error)
	})

	t.Run("Season", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/titles/tv/1399/seasons/2", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string]any](t, w)
		assert.EqualValues(t, 2, body["season_number"])

		w = env.do(t, http.MethodGet, "/api/titles/movie/550/seasons/1", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = env.do(t, http.MethodGet, "/api/titles/tv/1399/seasons/x", "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Anime", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/anime/154587", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/anime/404", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("AnimeLists", func(t *testing.T) {
		for _, path := range []string{"/api/anime/trending", "/api/anime/popular?page=1", "/api/anime/search?q=frieren"} {
			w := env.do(t, http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, w.Code, path)

			page := decode[models.Page](t, w)
			require.Len(t, page.Results, 1, path)
			assert.Equal(t, models.MediaTypeAnime, page.Results[0].MediaType, path)
			assert.True(t, page.HasMore, path)
		}
	})

	t.Run("AnimePerPageCapped", func(t *testing.T) {
		tests := []struct {
			path string
			want int
		}{
			{"/api/anime/trending?perPage=500", anilist.MaxPerPage},
			{"/api/anime/popular?page=2&perPage=7", 7},
			{"/api/anime/search?q=frieren&perPage=51", anilist.MaxPerPage},
			{"/api/anime/search?q=frieren&perPage=0", 20},
		}

		for _, tt := range tests {
			w := env.do(t, http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, w.Code, tt.path)
			assert.Equal(t, tt.want, env.anilist.lastPerPage(), tt.path)
		}
	})

	t.Run("AnimeStaticLists", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/anime/genres", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode[map[string][]string](t, w)["genres"])

		w = env.do(t, http.MethodGet, "/api/anime/studios", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode[map[string][]string](t, w)["studios"])
	})
}

func TestCatalogAPI_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"circuit open", fmt.Errorf("tmdb: %w", upstream.ErrCircuitOpen), http.StatusServiceUnavailable, "upstream_unavailable"},
		{"upstream 500", &upstream.StatusError{Service: "tmdb", StatusCode: 500}, http.StatusBadGateway, "upstream_error"},
		{"transport", fmt.Errorf("dial tcp: connection refused"), http.StatusBadGateway, "upstream_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.tmdb.err = tt.err

			w := env.do(t, http.MethodGet, "/api/browse?type=movie&tab=top_rated", "", nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decode[ErrorResponse](t, w).Error)
		})
	}
}

func TestCatalogAPI_HomeSurvivesUpstreamFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.tmdb.err = fmt.Errorf("tmdb down")

	w := env.do(t, http.MethodGet, "/api/home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	feed := decode[catalog.HomeFeed](t, w)
	assert.NotEmpty(t, feed.FailedSections)
	assert.NotEmpty(t, feed.TrendingAnime)
}
