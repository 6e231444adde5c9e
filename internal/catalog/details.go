package catalog

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"
	"github.com/stwalsh4118/akmovies/internal/logger"
	"github.com/stwalsh4118/akmovies/internal/models"
	"github.com/stwalsh4118/akmovies/internal/tmdb"
	"github.com/stwalsh4118/akmovies/internal/upstream"
)

// TitleDetails is a movie or show with the derived fields the watch page shows
type TitleDetails struct {
	*tmdb.Details
	UniqueKey        string        `json:"uniqueKey"`
	WatchPath        string        `json:"watchPath"`
	TrailerKey       string        `json:"trailerKey,omitempty"`
	SimilarItems     []models.Card `json:"similarItems"`
	ContentRating    string        `json:"contentRating"`
	Runtime          string        `json:"runtimeText,omitempty"`
	ShortDescription string        `json:"shortDescription"`
	LogoURL          string        `json:"logoUrl,omitempty"`
	PosterURL        string        `json:"posterUrl"`
	BackdropURL      string        `json:"backdropUrl"`
}

// Details loads a movie or TV show and its title logo concurrently. A missing
// logo is not an error.
func (s *Service) Details(ctx context.Context, mediaType models.MediaType, id int64) (*TitleDetails, error) {
	if mediaType != models.MediaTypeMovie && mediaType != models.MediaTypeTV {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}

	var (
		details    *tmdb.Details
		detailsErr error
		logo       string
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		details, detailsErr = s.tmdb.Details(ctx, mediaType, id)
	})
	wg.Go(func() {
		var err error
		logo, err = s.tmdb.TitleLogo(ctx, mediaType, id)
		if err != nil {
			logger.Log.Debug().
				Err(err).
				Str("media_type", mediaType.String()).
				Int64("id", id).
				Msg("Title logo unavailable")
		}
	})
	wg.Wait()

	if detailsErr != nil {
		if upstream.IsNotFound(detailsErr) {
			return nil, fmt.Errorf("%w: %s", ErrTitleNotFound, models.DocID(mediaType, id))
		}
		return nil, fmt.Errorf("failed to load details: %w", detailsErr)
	}

	return &TitleDetails{
		Details:          details,
		UniqueKey:        models.DocID(mediaType, details.ID),
		WatchPath:        WatchPath(mediaType, details.ID, details.DisplayTitle()),
		TrailerKey:       details.TrailerKey(),
		SimilarItems:     withCardLinks(details.SimilarCards()),
		ContentRating:    details.ContentRating(),
		Runtime:          tmdb.FormatRuntime(details.RuntimeMinutes()),
		ShortDescription: details.ShortDescription(),
		LogoURL:          logo,
		PosterURL:        s.tmdb.ImageURL(details.PosterPath, "w500"),
		BackdropURL:      s.tmdb.ImageURL(details.BackdropPath, "original"),
	}, nil
}

// Season returns one season of a TV show with its episodes
func (s *Service) Season(ctx context.Context, id int64, season int) (*tmdb.SeasonDetails, error) {
	sd, err := s.tmdb.TVSeason(ctx, id, season)
	if err != nil {
		if upstream.IsNotFound(err) {
			return nil, fmt.Errorf("%w: tv_%d season %d", ErrTitleNotFound, id, season)
		}
		return nil, fmt.Errorf("failed to load season: %w", err)
	}
	return sd, nil
}
