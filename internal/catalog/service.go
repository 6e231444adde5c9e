// Package catalog aggregates TMDB, AniList and curated recommendations into
// the feeds, lists and detail payloads the portal serves.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/cache"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
)

const (
	trendingTodayLimit = 10
	homeSectionLimit   = 50
	homeAnimePerPage   = 20
	genreCacheTTL      = 24 * time.Hour
)

// TMDB is the subset of the TMDB client the catalog needs
type TMDB interface {
	Trending(ctx context.Context, mediaType, window string) ([]models.Card, error)
	PopularMovies(ctx context.Context, page int) (*models.Page, error)
	PopularTV(ctx context.Context, page int) (*models.Page, error)
	TopRatedMovies(ctx context.Context, page int) (*models.Page, error)
	NowPlayingMovies(ctx context.Context, page int) (*models.Page, error)
	UpcomingMovies(ctx context.Context, page int) (*models.Page, error)
	DiscoverByGenre(ctx context.Context, mediaType models.MediaType, genreID, page int) (*models.Page, error)
	SearchMulti(ctx context.Context, query string, page int) (*models.Page, error)
	MovieGenres(ctx context.Context) ([]tmdb.Genre, error)
	TVGenres(ctx context.Context) ([]tmdb.Genre, error)
	Details(ctx context.Context, mediaType models.MediaType, id int64) (*tmdb.Details, error)
	TVSeason(ctx context.Context, id int64, season int) (*tmdb.SeasonDetails, error)
	TitleLogo(ctx context.Context, mediaType models.MediaType, id int64) (string, error)
	ImageURL(path, size string) string
}

// AniList is the subset of the AniList client the catalog needs
type AniList interface {
	Details(ctx context.Context, id int64) (*anilist.Media, error)
	Search(ctx context.Context, term string, page, perPage int) (*anilist.Page, error)
	Trending(ctx context.Context, page, perPage int) (*anilist.Page, error)
	Popular(ctx context.Context, page, perPage int) (*anilist.Page, error)
}

// RecommendationLister lists curated recommendations
type RecommendationLister interface {
	List(ctx context.Context) ([]*models.Recommendation, error)
}

// Service handles catalog aggregation
type Service struct {
	tmdb    TMDB
	anilist AniList
	recs    RecommendationLister
	cache   *cache.Cache
}

// NewService creates a new catalog service. cache may be nil.
func NewService(tmdbClient TMDB, anilistClient AniList, recs RecommendationLister, c *cache.Cache) *Service {
	return &Service{
		tmdb:    tmdbClient,
		anilist: anilistClient,
		recs:    recs,
		cache:   c,
	}
}

// HomeFeed is every section of the landing page
type HomeFeed struct {
	TrendingToday   []models.Card `json:"trendingToday"`
	TrendingWeek    []models.Card `json:"trendingWeek"`
	PopularMovies   []models.Card `json:"popularMovies"`
	PopularTV       []models.Card `json:"popularTV"`
	TrendingAnime   []models.Card `json:"trendingAnime"`
	PopularAnime    []models.Card `json:"popularAnime"`
	Recommendations []models.Card `json:"recommendations"`
	// FailedSections names the sections that could not be loaded
	FailedSections []string `json:"failedSections,omitempty"`
}

// cached serves key from the cache, or loads it and stores the result for
// the cache TTL. Load errors are never cached.
func cached[T any](s *Service, key string, load func() (T, error)) (T, error) {
	var hit T
	if s.cache.Get(key, &hit) {
		return hit, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(key, v); err != nil {
		logger.Log.Warn().Err(err).Str("key", key).Msg("Failed to cache catalog response")
	}
	return v, nil
}

// trending returns TMDB's trending list for a window, cached
func (s *Service) trending(ctx context.Context, mediaType, window string) ([]models.Card, error) {
	return cached(s, "tmdb:trending:"+mediaType+":"+window, func() ([]models.Card, error) {
		return s.tmdb.Trending(ctx, mediaType, window)
	})
}

func limit(cards []models.Card, n int) []models.Card {
	if len(cards) > n {
		return cards[:n]
	}
	return cards
}

// Home loads every landing page section concurrently. A failing section is
// logged and left empty; the feed itself never fails.
func (s *Service) Home(ctx context.Context) *HomeFeed {
	feed := &HomeFeed{
		TrendingToday:   []models.Card{},
		TrendingWeek:    []models.Card{},
		PopularMovies:   []models.Card{},
		PopularTV:       []models.Card{},
		TrendingAnime:   []models.Card{},
		PopularAnime:    []models.Card{},
		Recommendations: []models.Card{},
	}
	failed := make([]bool, 7)
	names := []string{"trendingToday", "trendingWeek", "popularMovies", "popularTV", "trendingAnime", "popularAnime", "recommendations"}

	section := func(i int, fn func() error) func() {
		return func() {
			if err := fn(); err != nil {
				failed[i] = true
				logger.Log.Warn().
					Err(err).
					Str("section", names[i]).
					Msg("Home section failed to load")
			}
		}
	}

	var wg conc.WaitGroup
	wg.Go(section(0, func() error {
		cards, err := s.trending(ctx, "all", "day")
		if err == nil {
			feed.TrendingToday = withCardLinks(limit(cards, trendingTodayLimit))
		}
		return err
	}))
	wg.Go(section(1, func() error {
		cards, err := s.trending(ctx, "all", "week")
		if err == nil {
			feed.TrendingWeek = withCardLinks(limit(cards, homeSectionLimit))
		}
		return err
	}))
	wg.Go(section(2, func() error {
		page, err := s.Browse(ctx, BrowseQuery{MediaType: models.MediaTypeMovie, Tab: TabPopular, Page: 1})
		if err == nil {
			feed.PopularMovies = limit(page.Results, homeSectionLimit)
		}
		return err
	}))
	wg.Go(section(3, func() error {
		page, err := s.Browse(ctx, BrowseQuery{MediaType: models.MediaTypeTV, Tab: TabPopular, Page: 1})
		if err == nil {
			feed.PopularTV = limit(page.Results, homeSectionLimit)
		}
		return err
	}))
	wg.Go(section(4, func() error {
		page, err := s.animeList(ctx, AnimeTrending, 1, homeAnimePerPage)
		if err == nil {
			feed.TrendingAnime = withCardLinks(anilist.ToCards(page.Media))
		}
		return err
	}))
	wg.Go(section(5, func() error {
		page, err := s.animeList(ctx, AnimePopular, 1, homeAnimePerPage)
		if err == nil {
			feed.PopularAnime = withCardLinks(anilist.ToCards(page.Media))
		}
		return err
	}))
	wg.Go(section(6, func() error {
		cards, err := s.Recommendations(ctx)
		if err == nil {
			feed.Recommendations = cards
		}
		return err
	}))
	wg.Wait()

	for i, f := range failed {
		if f {
			feed.FailedSections = append(feed.FailedSections, names[i])
		}
	}
	return feed
}

// Recommendations returns the curated list as cards, newest first
func (s *Service) Recommendations(ctx context.Context) ([]models.Card, error) {
	recs, err := s.recs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	cards := make([]models.Card, 0, len(recs))
	for _, r := range recs {
		cards = append(cards, r.Card())
	}
	return withCardLinks(cards), nil
}
