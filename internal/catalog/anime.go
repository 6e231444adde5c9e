package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// NextAiring is the upcoming episode of an airing anime
type NextAiring struct {
	Episode         int    `json:"episode"`
	AiringAt        int64  `json:"airingAt"`
	TimeUntilAiring string `json:"timeUntilAiring"`
}

// AnimeDetails is an AniList entry with the derived fields the anime page shows
type AnimeDetails struct {
	*anilist.Media
	Card             models.Card   `json:"card"`
	WatchPath        string        `json:"watchPath"`
	TrailerURL       string        `json:"trailerUrl,omitempty"`
	NextAiring       *NextAiring   `json:"nextAiring,omitempty"`
	DurationText     string        `json:"durationText,omitempty"`
	ShortDescription string        `json:"shortDescription"`
	Related          []models.Card `json:"related"`
}

// Anime loads one AniList entry with its trailer embed and next airing info
func (s *Service) Anime(ctx context.Context, id int64) (*AnimeDetails, error) {
	media, err := s.anilist.Details(ctx, id)
	if err != nil {
		if errors.Is(err, anilist.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTitleNotFound, models.DocID(models.MediaTypeAnime, id))
		}
		return nil, fmt.Errorf("failed to load anime: %w", err)
	}

	out := &AnimeDetails{
		Media:            media,
		Card:             withCardLinks([]models.Card{anilist.ToCard(media)})[0],
		WatchPath:        WatchPath(models.MediaTypeAnime, media.ID, media.DisplayTitle()),
		TrailerURL:       media.TrailerURL(),
		ShortDescription: anilist.CleanDescription(media.Description),
		Related:          withCardLinks(media.RelatedAnime()),
	}
	if media.Duration != nil {
		out.DurationText = anilist.FormatDuration(*media.Duration)
	}
	if next := media.NextAiringEpisode; next != nil {
		out.NextAiring = &NextAiring{
			Episode:         next.Episode,
			AiringAt:        next.AiringAt,
			TimeUntilAiring: anilist.FormatTimeUntil(next.TimeUntilAiring),
		}
	}
	return out, nil
}

// AnimeList names an AniList listing
type AnimeList string

// AniList listings
const (
	AnimeTrending AnimeList = "trending"
	AnimePopular  AnimeList = "popular"
)

// animeList loads one cached page of an AniList listing
func (s *Service) animeList(ctx context.Context, list AnimeList, page, perPage int) (*anilist.Page, error) {
	var load func(ctx context.Context, page, perPage int) (*anilist.Page, error)
	switch list {
	case AnimeTrending:
		load = s.anilist.Trending
	case AnimePopular:
		load = s.anilist.Popular
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTab, list)
	}
	key := fmt.Sprintf("anilist:%s:%d:%d", list, page, perPage)
	return cached(s, key, func() (*anilist.Page, error) {
		return load(ctx, page, perPage)
	})
}

// AnimePage returns one page of trending or popular anime as cards
func (s *Service) AnimePage(ctx context.Context, list AnimeList, page, perPage int) (*models.Page, error) {
	p, err := s.animeList(ctx, list, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s anime: %w", list, err)
	}
	return withWatchPaths(animeToPage(p, page)), nil
}

// SearchAnime searches AniList only
func (s *Service) SearchAnime(ctx context.Context, query string, page, perPage int) (*models.Page, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return models.NewPage(nil, 1, 0), nil
	}
	p, err := s.anilist.Search(ctx, query, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}
	return withWatchPaths(animeToPage(p, page)), nil
}

func animeToPage(p *anilist.Page, requested int) *models.Page {
	current := p.PageInfo.CurrentPage
	if current < 1 {
		current = requested
	}
	if current < 1 {
		current = 1
	}
	total := p.PageInfo.LastPage
	if p.PageInfo.HasNextPage && total <= current {
		total = current + 1
	}
	return models.NewPage(anilist.ToCards(p.Media), current, total)
}
