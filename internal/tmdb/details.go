package tmdb

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/akmovies/internal/models"
)

const (
	similarLimit         = 10
	descriptionWordLimit = 50
	defaultMovieRating   = "PG-13"
	defaultTVRating      = "TV-14"
	contentRatingCountry = "US"
	trailerType          = "Trailer"
	trailerSite          = "YouTube"
)

// TrailerKey returns the YouTube key of the first trailer, or ""
func (d *Details) TrailerKey() string {
	for _, v := range d.Videos.Results {
		if v.Type == trailerType && v.Site == trailerSite {
			return v.Key
		}
	}
	return ""
}

// SimilarCards returns up to the first ten similar titles, keyed
func (d *Details) SimilarCards() []models.Card {
	similar := d.Similar.Results
	if len(similar) > similarLimit {
		similar = similar[:similarLimit]
	}
	out := make([]models.Card, len(similar))
	copy(out, similar)
	for i := range out {
		if out[i].MediaType == "" {
			out[i].MediaType = d.MediaType
		}
	}
	return EnsureUniqueKeys(out)
}

// ContentRating returns the US certification, falling back to PG-13 for
// movies and TV-14 for shows
func (d *Details) ContentRating() string {
	if d.MediaType == models.MediaTypeMovie {
		for _, r := range d.ReleaseDates.Results {
			if r.Country == contentRatingCountry && len(r.ReleaseDates) > 0 && r.ReleaseDates[0].Certification != "" {
				return r.ReleaseDates[0].Certification
			}
		}
		return defaultMovieRating
	}
	for _, r := range d.ContentRatings.Results {
		if r.Country == contentRatingCountry && r.Rating != "" {
			return r.Rating
		}
	}
	return defaultTVRating
}

// RuntimeMinutes returns the movie runtime or the first episode runtime
func (d *Details) RuntimeMinutes() int {
	if d.Runtime > 0 {
		return d.Runtime
	}
	if len(d.EpisodeRunTime) > 0 {
		return d.EpisodeRunTime[0]
	}
	return 0
}

// FormatRuntime renders minutes as "Xh Ym", or "Ym" under an hour, or "" for zero
func FormatRuntime(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// TruncateWords keeps the first limit space-separated words and appends "..."
// when anything was cut
func TruncateWords(text string, limit int) string {
	if text == "" {
		return ""
	}
	words := strings.Split(text, " ")
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ") + "..."
}

// ShortDescription returns the overview cut to fifty words
func (d *Details) ShortDescription() string {
	return TruncateWords(d.Overview, descriptionWordLimit)
}
