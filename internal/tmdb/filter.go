package tmdb

import (
	"strings"

	"github.com/stwalsh4118/akmovies/internal/models"
)

const (
	minOverviewLength = 20
	minVoteCount      = 10
	minVoteAverage    = 4.0
)

// IsValidContent reports whether a card is complete enough to show: it needs a
// title, a real overview, both images, enough votes with a decent average, a
// date and some popularity
func IsValidContent(c *models.Card) bool {
	if c.Title == "" && c.Name == "" {
		return false
	}
	if len([]rune(strings.TrimSpace(c.Overview))) <= minOverviewLength {
		return false
	}
	if c.PosterPath == "" || c.BackdropPath == "" {
		return false
	}
	if c.VoteCount < minVoteCount || c.VoteAverage < minVoteAverage {
		return false
	}
	if c.ReleaseDate == "" && c.FirstAirDate == "" {
		return false
	}
	if c.Popularity <= 0 {
		return false
	}
	if c.MediaType == models.MediaTypeTV && c.VoteCount <= 0 {
		return false
	}
	return true
}

// FilterValidContent keeps the cards that pass IsValidContent, preserving order
func FilterValidContent(cards []models.Card) []models.Card {
	out := make([]models.Card, 0, len(cards))
	for i := range cards {
		if IsValidContent(&cards[i]) {
			out = append(out, cards[i])
		}
	}
	return out
}

// EnsureUniqueKeys sets UniqueKey to "{media type}_{id}" on every card,
// inferring the media type when TMDB omitted it
func EnsureUniqueKeys(cards []models.Card) []models.Card {
	for i := range cards {
		cards[i].UniqueKey = models.DocID(cards[i].ResolvedMediaType(), cards[i].ID)
	}
	return cards
}

// clean filters and keys a raw result list
func clean(cards []models.Card) []models.Card {
	return EnsureUniqueKeys(FilterValidContent(cards))
}
