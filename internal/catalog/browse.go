package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/sourcegraph/conc/pool"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
)

// Browse tabs
const (
	TabPopular    = "popular"
	TabTopRated   = "top_rated"
	TabNowPlaying = "now_playing"
	TabUpcoming   = "upcoming"
)

// BrowseQuery selects one browse list. A non-zero GenreID wins over Tab.
type BrowseQuery struct {
	MediaType models.MediaType
	Tab       string
	GenreID   int
	Page      int
}

// Tabs returns the browse tabs offered for a media type
func Tabs(mediaType models.MediaType) []string {
	switch mediaType {
	case models.MediaTypeMovie:
		return []string{TabPopular, TabTopRated, TabNowPlaying, TabUpcoming}
	case models.MediaTypeTV:
		return []string{TabPopular}
	default:
		return nil
	}
}

// Browse returns one page of a tab or genre listing. Callers keep loading
// while the returned page reports HasMore. Pages are cached per query.
func (s *Service) Browse(ctx context.Context, q BrowseQuery) (*models.Page, error) {
	if q.MediaType != models.MediaTypeMovie && q.MediaType != models.MediaTypeTV {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, q.MediaType)
	}
	if q.Page < 1 {
		q.Page = 1
	}

	tab := q.Tab
	if tab == "" || q.GenreID > 0 {
		tab = TabPopular
	}
	if !slices.Contains(Tabs(q.MediaType), tab) {
		return nil, fmt.Errorf("%w: %q for %s", ErrInvalidTab, tab, q.MediaType)
	}

	key := fmt.Sprintf("tmdb:browse:%s:%s:%d:%d", q.MediaType, tab, q.GenreID, q.Page)
	page, err := cached(s, key, func() (*models.Page, error) {
		return s.fetchBrowse(ctx, q.MediaType, tab, q.GenreID, q.Page)
	})
	if err != nil {
		return nil, err
	}
	return withWatchPaths(page), nil
}

func (s *Service) fetchBrowse(ctx context.Context, mediaType models.MediaType, tab string, genreID, page int) (*models.Page, error) {
	if genreID > 0 {
		return s.tmdb.DiscoverByGenre(ctx, mediaType, genreID, page)
	}
	if mediaType == models.MediaTypeTV {
		return s.tmdb.PopularTV(ctx, page)
	}
	switch tab {
	case TabTopRated:
		return s.tmdb.TopRatedMovies(ctx, page)
	case TabNowPlaying:
		return s.tmdb.NowPlayingMovies(ctx, page)
	case TabUpcoming:
		return s.tmdb.UpcomingMovies(ctx, page)
	default:
		return s.tmdb.PopularMovies(ctx, page)
	}
}

// GenreLists holds the movie and TV genre lists
type GenreLists struct {
	Movie []tmdb.Genre `json:"movie"`
	TV    []tmdb.Genre `json:"tv"`
}

const genreCacheKey = "tmdb:genres"

// Genres returns the movie and TV genre lists, fetched in parallel and cached
func (s *Service) Genres(ctx context.Context) (*GenreLists, error) {
	var cached GenreLists
	if s.cache.Get(genreCacheKey, &cached) {
		return &cached, nil
	}

	lists := &GenreLists{}
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		genres, err := s.tmdb.MovieGenres(ctx)
		if err != nil {
			return fmt.Errorf("movie genres: %w", err)
		}
		lists.Movie = genres
		return nil
	})
	p.Go(func(ctx context.Context) error {
		genres, err := s.tmdb.TVGenres(ctx)
		if err != nil {
			return fmt.Errorf("tv genres: %w", err)
		}
		lists.TV = genres
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	if err := s.cache.SetWithTTL(genreCacheKey, lists, genreCacheTTL); err != nil {
		logger.Log.Warn().Err(err).Msg("Failed to cache genre lists")
	}
	return lists, nil
}
