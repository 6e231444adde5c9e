package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

const longOverview = "A long enough overview describing the plot in detail."

func validCard(id int64, title string) map[string]any {
	return map[string]any{
		"id":            id,
		"title":         title,
		"overview":      longOverview,
		"poster_path":   "/p.jpg",
		"backdrop_path": "/b.jpg",
		"vote_count":    100,
		"vote_average":  7.5,
		"release_date":  "2020-01-01",
		"popularity":    12.3,
	}
}

// newTestClient starts a fake TMDB that answers with handler and returns a client for it
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      srv.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p",
		Timeout:      time.Second,
	}
	up := upstream.NewClient("TMDB", upstream.Options{Timeout: time.Second, RetryAttempts: 1})
	return NewClient(cfg, up)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestIsValidContent(t *testing.T) {
	base := func() models.Card {
		return models.Card{
			ID: 1, Title: "Heat", Overview: longOverview, PosterPath: "/p", BackdropPath: "/b",
			VoteCount: 10, VoteAverage: 4.0, ReleaseDate: "1995-12-15", Popularity: 1,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *models.Card)
		want   bool
	}{
		{"complete", func(c *models.Card) {}, true},
		{"name instead of title", func(c *models.Card) { c.Title = ""; c.Name = "Lost" }, true},
		{"no title or name", func(c *models.Card) { c.Title = "" }, false},
		{"overview exactly 20 chars", func(c *models.Card) { c.Overview = "  12345678901234567890  " }, false},
		{"overview 21 chars", func(c *models.Card) { c.Overview = "123456789012345678901" }, true},
		{"missing poster", func(c *models.Card) { c.PosterPath = "" }, false},
		{"missing backdrop", func(c *models.Card) { c.BackdropPath = "" }, false},
		{"too few votes", func(c *models.Card) { c.VoteCount = 9 }, false},
		{"low rating", func(c *models.Card) { c.VoteAverage = 3.9 }, false},
		{"first air date only", func(c *models.Card) { c.ReleaseDate = ""; c.FirstAirDate = "2004-09-22" }, true},
		{"no date", func(c *models.Card) { c.ReleaseDate = "" }, false},
		{"zero popularity", func(c *models.Card) { c.Popularity = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			assert.Equal(t, tt.want, IsValidContent(&c))
		})
	}
}

func TestEnsureUniqueKeys(t *testing.T) {
	cards := EnsureUniqueKeys([]models.Card{
		{ID: 1, Title: "Heat"},
		{ID: 2, Name: "Lost"},
		{ID: 3, Name: "Person", MediaType: models.MediaTypeMovie},
	})
	assert.Equal(t, "movie_1", cards[0].UniqueKey)
	assert.Equal(t, "tv_2", cards[1].UniqueKey)
	assert.Equal(t, "movie_3", cards[2].UniqueKey)
}

func TestImageURL(t *testing.T) {
	c := NewClient(config.TMDBConfig{ImageBaseURL: "https://image.tmdb.org/t/p/"}, nil)
	assert.Equal(t, "/placeholder-movie.jpg", c.ImageURL("", "w500"))
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", c.ImageURL("/abc.jpg", ""))
	assert.Equal(t, "https://image.tmdb.org/t/p/original/abc.jpg", c.ImageURL("/abc.jpg", "original"))
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient(config.TMDBConfig{BaseURL: "http://unused"}, nil)
	_, err := c.PopularMovies(context.Background(), 1)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestPopularMovies_UsesTopRatedAndFilters(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/top_rated", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))

		incomplete := validCard(2, "No Poster")
		incomplete["poster_path"] = ""
		writeJSON(t, w, map[string]any{
			"page":        2,
			"total_pages": 5,
			"results":     []any{validCard(1, "Heat"), incomplete},
		})
	})

	page, err := c.PopularMovies(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "movie_1", page.Results[0].UniqueKey)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages)
	assert.True(t, page.HasMore)
}

func TestPopularTV_UsesTopRated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/top_rated", r.URL.Path)
		writeJSON(t, w, map[string]any{"page": 1, "total_pages": 1, "results": []any{}})
	})

	page, err := c.PopularTV(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.False(t, page.HasMore)
}

func TestTrending(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trending/all/day", r.URL.Path)
		writeJSON(t, w, map[string]any{"results": []any{validCard(7, "Se7en")}})
	})

	cards, err := c.Trending(context.Background(), "all", "day")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "movie_7", cards[0].UniqueKey)

	_, err = c.Trending(context.Background(), "all", "month")
	assert.ErrorIs(t, err, ErrInvalidTimeWindow)
	_, err = c.Trending(context.Background(), "anime", "day")
	assert.ErrorIs(t, err, ErrInvalidMediaType)
}

func TestDiscoverByGenre(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/tv", r.URL.Path)
		assert.Equal(t, "18", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		writeJSON(t, w, map[string]any{"page": 1, "total_pages": 1, "results": []any{}})
	})

	_, err := c.DiscoverByGenre(context.Background(), models.MediaTypeTV, 18, 1)
	require.NoError(t, err)

	_, err = c.DiscoverByGenre(context.Background(), models.MediaTypeAnime, 18, 1)
	assert.ErrorIs(t, err, ErrInvalidMediaType)
}

func TestUpstreamErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.MovieGenres(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode(err))
	assert.True(t, strings.Contains(err.Error(), "TMDB API error: 401"))
}

func TestMovieDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550", r.URL.Path)
		assert.Equal(t, "credits,videos,similar,release_dates", r.URL.Query().Get("append_to_response"))

		similar := make([]any, 0, 12)
		for i := 0; i < 12; i++ {
			similar = append(similar, validCard(int64(1000+i), "Similar"))
		}
		writeJSON(t, w, map[string]any{
			"id":       550,
			"title":    "Fight Club",
			"overview": "one two three",
			"runtime":  139,
			"videos": map[string]any{"results": []any{
				map[string]any{"key": "teaser", "site": "YouTube", "type": "Teaser"},
				map[string]any{"key": "vimeo", "site": "Vimeo", "type": "Trailer"},
				map[string]any{"key": "yt-trailer", "site": "YouTube", "type": "Trailer"},
			}},
			"similar": map[string]any{"results": similar},
			"release_dates": map[string]any{"results": []any{
				map[string]any{"iso_3166_1": "US", "release_dates": []any{map[string]any{"certification": "R"}}},
			}},
		})
	})

	d, err := c.MovieDetails(context.Background(), 550)
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeMovie, d.MediaType)
	assert.Equal(t, "yt-trailer", d.TrailerKey())
	assert.Len(t, d.SimilarCards(), 10)
	assert.Equal(t, "R", d.ContentRating())
	assert.Equal(t, "2h 19m", FormatRuntime(d.RuntimeMinutes()))
}

func TestTVDetails_ContentRatingFallback(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "credits,videos,similar,content_ratings", r.URL.Query().Get("append_to_response"))
		writeJSON(t, w, map[string]any{
			"id":               1399,
			"name":             "Game of Thrones",
			"episode_run_time": []int{55},
			"seasons": []any{
				map[string]any{"season_number": 0, "episode_count": 3},
				map[string]any{"season_number": 1, "episode_count": 10},
			},
		})
	})

	d, err := c.Details(context.Background(), models.MediaTypeTV, 1399)
	require.NoError(t, err)
	assert.Equal(t, "TV-14", d.ContentRating())
	assert.Equal(t, 55, d.RuntimeMinutes())
	assert.Len(t, d.Seasons, 2)
	assert.Equal(t, "tv_1399", d.Card().UniqueKey)
}

func TestTitleLogo(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550/images", r.URL.Path)
		writeJSON(t, w, map[string]any{"logos": []any{
			map[string]any{"file_path": "/neutral.png", "iso_639_1": nil},
			map[string]any{"file_path": "/en.png", "iso_639_1": "en"},
		}})
	})

	logo, err := c.TitleLogo(context.Background(), models.MediaTypeMovie, 550)
	require.NoError(t, err)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/en.png", logo)
}

func TestFormatRuntime(t *testing.T) {
	assert.Equal(t, "", FormatRuntime(0))
	assert.Equal(t, "45m", FormatRuntime(45))
	assert.Equal(t, "1h 0m", FormatRuntime(60))
	assert.Equal(t, "2h 19m", FormatRuntime(139))
}

func TestTruncateWords(t *testing.T) {
	words := strings.Repeat("word ", 60)
	got := TruncateWords(strings.TrimSpace(words), 50)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, strings.Split(strings.TrimSuffix(got, "..."), " "), 50)

	assert.Equal(t, "short text", TruncateWords("short text", 50))
	assert.Equal(t, "", TruncateWords("", 50))
}
