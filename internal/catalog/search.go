package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sourcegraph/conc/pool"
	"github.com/stwalsh4118/akmovies/internal/anilist"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
)

// MinSearchLength is the shortest trimmed query that triggers a search
const MinSearchLength = 3

const searchAnimePerPage = 20

// Search runs a multi search on TMDB, optionally merged with AniList results.
// Queries shorter than MinSearchLength return an empty page.
func (s *Service) Search(ctx context.Context, query string, page int, includeAnime bool) (*models.Page, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return models.NewPage(nil, 1, 0), nil
	}
	if page < 1 {
		page = 1
	}

	var tmdbPage *models.Page
	var animePage *anilist.Page

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		tmdbPage, err = s.tmdb.SearchMulti(ctx, query, page)
		return err
	})
	if includeAnime {
		p.Go(func(ctx context.Context) error {
			var err error
			animePage, err = s.anilist.Search(ctx, query, page, searchAnimePerPage)
			if err != nil {
				// TMDB results are still returned when AniList fails
				logger.Log.Warn().Err(err).Str("query", query).Msg("Anime search failed")
				animePage = nil
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	results := tmdbPage.Results
	totalPages := tmdbPage.TotalPages
	if animePage != nil {
		results = append(results, anilist.ToCards(animePage.Media)...)
		if animePage.PageInfo.LastPage > totalPages {
			totalPages = animePage.PageInfo.LastPage
		}
	}

	return withWatchPaths(models.NewPage(rankByTitle(query, dedupe(results)), page, totalPages)), nil
}

// dedupe drops cards whose UniqueKey was already seen, keeping the first
func dedupe(cards []models.Card) []models.Card {
	seen := make(map[string]struct{}, len(cards))
	out := make([]models.Card, 0, len(cards))
	for _, c := range cards {
		key := c.UniqueKey
		if key == "" {
			key = models.DocID(c.ResolvedMediaType(), c.ID)
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// rankByTitle orders cards whose title fuzzily matches query first, closest
// match first. Non-matching cards keep their upstream order after them.
func rankByTitle(query string, cards []models.Card) []models.Card {
	distance := make([]int, len(cards))
	for i := range cards {
		distance[i] = fuzzy.RankMatchFold(query, cards[i].DisplayTitle())
	}

	idx := make([]int, len(cards))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		da, db := distance[idx[a]], distance[idx[b]]
		if da < 0 || db < 0 {
			return da >= 0 && db < 0
		}
		return da < db
	})

	out := make([]models.Card, len(cards))
	for i, j := range idx {
		out[i] = cards[j]
	}
	return out
}
