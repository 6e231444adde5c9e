//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/api"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/cache"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/server"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

const (
	testSecret     = "integration-secret"
	testAdminEmail = "admin@example.com"
)

// setupTestDB creates a temp-file test database with migrations applied
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err, "Failed to get SQL DB")

	// Resolve migrations relative to this file so tests work from any directory
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get current file path")

	rootDir := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	migrationsPath := "file://" + filepath.Join(rootDir, "migrations")

	require.NoError(t, db.RunMigrations(sqlDB, migrationsPath), "Failed to run migrations")
	return database
}

// fakeTMDBServer answers the TMDB endpoints the portal uses. Any path under
// /movie/top_rated fails with 500 and /movie/404 does not exist.
func fakeTMDBServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/movie/top_rated":
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/movie/404":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"status_message":"not found"}`))
		case strings.HasSuffix(r.URL.Path, "/images"):
			_, _ = w.Write([]byte(`{"logos":[{"file_path":"/logo.png","iso_639_1":"en"}]}`))
		case r.URL.Path == "/movie/550":
			_, _ = w.Write([]byte(`{"id":550,"title":"Fight Club","overview":"Rules.","runtime":139,"poster_path":"/fc.jpg"}`))
		case r.URL.Path == "/tv/1399":
			_, _ = w.Write([]byte(`{"id":1399,"name":"Game of Thrones","seasons":[{"season_number":1,"episode_count":10},{"season_number":2,"episode_count":10}]}`))
		default:
			_, _ = w.Write([]byte(`{"page":1,"total_pages":1,"results":[` +
				`{"id":550,"title":"Fight Club","media_type":"movie","overview":"An insomniac office worker forms a club.",` +
				`"poster_path":"/fc.jpg","backdrop_path":"/fcb.jpg","vote_count":3000,"vote_average":8.4,` +
				`"release_date":"1999-10-15","popularity":61.4}]}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// fakeAniListServer answers GraphQL posts: a request carrying an id gets a
// Media entry, anything else a one-item Page
func fakeAniListServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		if _, ok := req.Variables["id"]; ok {
			_, _ = w.Write([]byte(`{"data":{"Media":{"id":154587,"title":{"english":"Frieren"},"episodes":28,"description":"An elf<br>travels."}}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":{"Page":{"pageInfo":{"currentPage":1,"lastPage":1},"media":[{"id":154587,"title":{"romaji":"Sousou no Frieren"}}]}}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testPortal is a fully wired server over fake upstreams
type testPortal struct {
	handler http.Handler
	tmdb    *upstream.Client
}

func setupPortal(t *testing.T) *testPortal {
	t.Helper()

	cfg := &config.Config{
		Logging: config.LoggingConfig{Level: "error"},
		TMDB: config.TMDBConfig{
			APIKey:       "test-key",
			BaseURL:      fakeTMDBServer(t).URL,
			ImageBaseURL: "https://image.example",
		},
		AniList: config.AniListConfig{URL: fakeAniListServer(t).URL, PerPage: 20},
		Auth: config.AuthConfig{
			JWTSecret:   testSecret,
			AdminEmails: []string{testAdminEmail},
		},
		Player: config.PlayerConfig{
			ServerURL:      "https://anime.example",
			DefaultServers: config.DefaultPlayerServers,
		},
	}

	opts := upstream.Options{
		Timeout:          2 * time.Second,
		RetryAttempts:    1,
		BreakerThreshold: 2,
		BreakerReset:     time.Minute,
	}
	tmdbHTTP := upstream.NewClient("tmdb", opts)
	anilistHTTP := upstream.NewClient("anilist", opts)

	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"), time.Minute, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	srv := server.New(cfg, setupTestDB(t), server.Dependencies{
		TMDB:      tmdb.NewClient(cfg.TMDB, tmdbHTTP),
		AniList:   anilist.NewClient(cfg.AniList, anilistHTTP),
		Cache:     c,
		Upstreams: []api.UpstreamReporter{tmdbHTTP, anilistHTTP},
	})

	return &testPortal{handler: srv.Handler(), tmdb: tmdbHTTP}
}

func mintToken(t *testing.T, subject, email string) string {
	t.Helper()
	tok, err := auth.SignToken(testSecret, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email: email,
		Name:  subject,
	})
	require.NoError(t, err)
	return tok
}
