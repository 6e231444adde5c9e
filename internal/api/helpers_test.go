package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/akmovies/internal/admin"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/auth"
	"github.com/stwalsh4118/akmovies/internal/cache"
	"github.com/stwalsh4118/akmovies/internal/catalog"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/db"
	"github.com/stwalsh4118/akmovies/internal/events"
	"github.com/stwalsh4118/akmovies/internal/library"
	"github.com/stwalsh4118/akmovies/internal/middleware"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/player"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

const (
	testSecret     = "api-test-secret"
	testAdminEmail = "admin@example.com"
)

type recordingConn struct {
	mu       sync.Mutex
	subjects []string
}

func (r *recordingConn) Publish(subject string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	return nil
}

func (r *recordingConn) published(subject string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.subjects {
		if s == subject {
			n++
		}
	}
	return n
}

// fakeTMDB serves a fixed catalog. Titles with id 404 do not exist.
type fakeTMDB struct {
	err error
}

func (f *fakeTMDB) cards(n int, mediaType models.MediaType) []models.Card {
	out := make([]models.Card, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = models.Card{ID: id, Title: "Title", MediaType: mediaType, UniqueKey: models.DocID(mediaType, id)}
	}
	return out
}

func (f *fakeTMDB) page(mediaType models.MediaType) (*models.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.NewPage(f.cards(20, mediaType), 1, 5), nil
}

func (f *fakeTMDB) Trending(ctx context.Context, mediaType, window string) ([]models.Card, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cards(20, models.MediaTypeMovie), nil
}

func (f *fakeTMDB) PopularMovies(ctx context.Context, page int) (*models.Page, error) {
	return f.page(models.MediaTypeMovie)
}

func (f *fakeTMDB) PopularTV(ctx context.Context, page int) (*models.Page, error) {
	return f.page(models.MediaTypeTV)
}

func (f *fakeTMDB) TopRatedMovies(ctx context.Context, page int) (*models.Page, error) {
	return f.page(models.MediaTypeMovie)
}

func (f *fakeTMDB) NowPlayingMovies(ctx context.Context, page int) (*models.Page, error) {
	return f.page(models.MediaTypeMovie)
}

func (f *fakeTMDB) UpcomingMovies(ctx context.Context, page int) (*models.Page, error) {
	return f.page(models.MediaTypeMovie)
}

func (f *fakeTMDB) DiscoverByGenre(ctx context.Context, mediaType models.MediaType, genreID, page int) (*models.Page, error) {
	return f.page(mediaType)
}

func (f *fakeTMDB) SearchMulti(ctx context.Context, query string, page int) (*models.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return models.NewPage([]models.Card{
		{ID: 27205, Title: "Inception", MediaType: models.MediaTypeMovie},
	}, 1, 1), nil
}

func (f *fakeTMDB) MovieGenres(ctx context.Context) ([]tmdb.Genre, error) {
	return []tmdb.Genre{{ID: 28, Name: "Action"}}, nil
}

func (f *fakeTMDB) TVGenres(ctx context.Context) ([]tmdb.Genre, error) {
	return []tmdb.Genre{{ID: 18, Name: "Drama"}}, nil
}

func (f *fakeTMDB) Details(ctx context.Context, mediaType models.MediaType, id int64) (*tmdb.Details, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id == 404 {
		return nil, &upstream.StatusError{Service: "tmdb", StatusCode: http.StatusNotFound}
	}
	d := &tmdb.Details{ID: id, Overview: "A story", MediaType: mediaType}
	if mediaType == models.MediaTypeTV {
		d.Name = "Show"
		d.Seasons = []tmdb.Season{
			{SeasonNumber: 1, EpisodeCount: 3},
			{SeasonNumber: 2, EpisodeCount: 2},
		}
	} else {
		d.Title = "Movie"
		d.Runtime = 139
	}
	return d, nil
}

func (f *fakeTMDB) TVSeason(ctx context.Context, id int64, season int) (*tmdb.SeasonDetails, error) {
	return &tmdb.SeasonDetails{
		SeasonNumber: season,
		Episodes:     []tmdb.Episode{{EpisodeNumber: 1, SeasonNumber: season, Name: "Pilot"}},
	}, nil
}

func (f *fakeTMDB) TitleLogo(ctx context.Context, mediaType models.MediaType, id int64) (string, error) {
	return "", errors.New("no logo")
}

func (f *fakeTMDB) ImageURL(path, size string) string {
	return "https://image.example/" + size + path
}

type fakeAniList struct {
	err error

	mu       sync.Mutex
	perPages []int
}

func (f *fakeAniList) lastPerPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.perPages) == 0 {
		return 0
	}
	return f.perPages[len(f.perPages)-1]
}

func (f *fakeAniList) Details(ctx context.Context, id int64) (*anilist.Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id == 404 {
		return nil, anilist.ErrNotFound
	}
	episodes := 12
	return &anilist.Media{ID: id, Title: anilist.Title{English: "Frieren"}, Episodes: &episodes}, nil
}

func (f *fakeAniList) page(page, perPage int) (*anilist.Page, error) {
	f.mu.Lock()
	f.perPages = append(f.perPages, perPage)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &anilist.Page{
		PageInfo: anilist.PageInfo{CurrentPage: page, LastPage: 2, HasNextPage: page < 2},
		Media:    []anilist.Media{{ID: 154587, Title: anilist.Title{Romaji: "Sousou no Frieren"}}},
	}, nil
}

func (f *fakeAniList) Search(ctx context.Context, term string, page, perPage int) (*anilist.Page, error) {
	return f.page(page, perPage)
}

func (f *fakeAniList) Trending(ctx context.Context, page, perPage int) (*anilist.Page, error) {
	return f.page(page, perPage)
}

func (f *fakeAniList) Popular(ctx context.Context, page, perPage int) (*anilist.Page, error) {
	return f.page(page, perPage)
}

// testEnv is a router wired like the real server over a temp-file database
// and fake upstreams
type testEnv struct {
	router  *gin.Engine
	db      *db.DB
	repos   *db.Repositories
	tmdb    *fakeTMDB
	anilist *fakeAniList
	conn    *recordingConn
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	c, err := cache.Open("", time.Minute, 0)
	require.NoError(t, err)

	env := &testEnv{
		db:      database,
		repos:   db.NewRepositories(database),
		tmdb:    &fakeTMDB{},
		anilist: &fakeAniList{},
		conn:    &recordingConn{},
	}

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:   testSecret,
			AdminEmails: []string{testAdminEmail},
		},
		Player: config.PlayerConfig{
			ServerURL:      "https://anime.example",
			Color:          "e50914",
			DefaultServers: config.DefaultPlayerServers,
		},
	}

	publisher := events.NewPublisher(env.conn)
	catalogService := catalog.NewService(env.tmdb, env.anilist, env.repos.Recommendations, c)
	libraryService := library.NewService(env.repos, publisher)
	adminService := admin.NewService(env.repos, publisher, cfg.Player.DefaultServers)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.NewAuthenticator(auth.NewVerifier(testSecret), env.repos.Users).Authenticate())

	apiGroup := router.Group("/api")
	SetupHealthRoutes(apiGroup, database)
	SetupCatalogRoutes(apiGroup, catalogService, publisher, 20)
	SetupWatchRoutes(apiGroup, catalogService, adminService, libraryService, player.NewBuilder(cfg.Player))
	SetupLibraryRoutes(apiGroup, libraryService)
	SetupAdminRoutes(apiGroup, adminService, &cfg.Auth, admin.NewRateLimiter(hourlyLimits()))

	env.router = router
	return env
}

// hourlyLimits keeps the default maximums over an hour so a test never
// straddles a window boundary
func hourlyLimits() map[string]admin.Limit {
	limits := admin.DefaultLimits()
	for action, l := range limits {
		l.Window = time.Hour
		limits[action] = l
	}
	return limits
}

func mintToken(t *testing.T, subject, email string) string {
	t.Helper()
	verified := true
	tok, err := auth.SignToken(testSecret, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Email:         email,
		EmailVerified: &verified,
		Name:          subject,
	})
	require.NoError(t, err)
	return tok
}

// do sends a request with an optional JSON body and bearer token
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}
