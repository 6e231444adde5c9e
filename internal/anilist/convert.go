package anilist

import (
	"fmt"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/stwalsh4118/akmovies/internal/models"
)

const (
	unknownTitle         = "Unknown Title"
	unknownStatus        = "UNKNOWN"
	defaultFormat        = "TV"
	relatedLimit         = 10
	descriptionWordLimit = 50
)

var (
	lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	whitespace   = regexp.MustCompile(`\s+`)

	descriptionPolicy = bluemonday.StrictPolicy()
)

// DisplayTitle returns the English title, then romaji, then a placeholder
func (m *Media) DisplayTitle() string {
	if m.Title.English != "" {
		return m.Title.English
	}
	if m.Title.Romaji != "" {
		return m.Title.Romaji
	}
	return unknownTitle
}

// Score returns the average score on a 0-10 scale rounded to one decimal
func (m *Media) Score() float64 {
	if m.AverageScore == nil || *m.AverageScore == 0 {
		return 0
	}
	return math.Round(float64(*m.AverageScore)) / 10
}

// EpisodeCount returns the known episode count or 0
func (m *Media) EpisodeCount() int {
	if m.Episodes == nil {
		return 0
	}
	return *m.Episodes
}

// ToCard converts an AniList media entry into a catalog card
func ToCard(m *Media) models.Card {
	date := ""
	if m.SeasonYear != nil && *m.SeasonYear > 0 {
		date = fmt.Sprintf("%d-01-01", *m.SeasonYear)
	}
	title := m.DisplayTitle()

	status := m.Status
	if status == "" {
		status = unknownStatus
	}
	format := m.Format
	if format == "" {
		format = defaultFormat
	}
	genres := m.Genres
	if genres == nil {
		genres = []string{}
	}

	return models.Card{
		ID:           m.ID,
		Title:        title,
		Name:         title,
		Overview:     m.Description,
		PosterPath:   m.CoverImage.Large,
		BackdropPath: m.CoverImage.Large,
		VoteAverage:  m.Score(),
		ReleaseDate:  date,
		FirstAirDate: date,
		MediaType:    models.MediaTypeAnime,
		UniqueKey:    models.DocID(models.MediaTypeAnime, m.ID),
		Episodes:     m.EpisodeCount(),
		Status:       status,
		Format:       format,
		Genres:       genres,
		Studios:      m.Studios.Names(),
	}
}

// ToCards converts a list of media entries
func ToCards(media []Media) []models.Card {
	out := make([]models.Card, 0, len(media))
	for i := range media {
		out = append(out, ToCard(&media[i]))
	}
	return out
}

// FormatTimeUntil renders seconds as "Xd Yh", "Xh Ym" or "Xm"; zero gives ""
func FormatTimeUntil(seconds int64) string {
	if seconds <= 0 {
		return ""
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatDuration renders minutes as "Xh Ym" or "Ym"; zero gives ""
func FormatDuration(minutes int) string {
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

// TrailerURL returns an embeddable URL for YouTube or Dailymotion trailers, or ""
func (m *Media) TrailerURL() string {
	if m.Trailer == nil || m.Trailer.ID == "" {
		return ""
	}
	switch strings.ToLower(m.Trailer.Site) {
	case "youtube":
		return "https://www.youtube.com/embed/" + m.Trailer.ID
	case "dailymotion":
		return "https://www.dailymotion.com/embed/video/" + m.Trailer.ID
	default:
		return ""
	}
}

// RelatedAnime returns up to ten related entries that are anime, as cards
func (m *Media) RelatedAnime() []models.Card {
	out := []models.Card{}
	if m.Relations == nil {
		return out
	}
	for _, edge := range m.Relations.Edges {
		if edge.Node.Type != "ANIME" {
			continue
		}
		node := edge.Node
		out = append(out, ToCard(&Media{
			ID:           node.ID,
			Title:        node.Title,
			CoverImage:   node.CoverImage,
			Episodes:     node.Episodes,
			Season:       node.Season,
			SeasonYear:   node.SeasonYear,
			Status:       node.Status,
			Format:       node.Format,
			AverageScore: node.AverageScore,
		}))
		if len(out) == relatedLimit {
			break
		}
	}
	return out
}

// CleanDescription strips AniList's HTML markup, decodes entities, collapses
// whitespace and keeps the first fifty words
func CleanDescription(text string) string {
	if text == "" {
		return ""
	}
	text = lineBreakTag.ReplaceAllString(text, "\n")
	// Sanitize escapes text, so entities are decoded after stripping
	text = html.UnescapeString(descriptionPolicy.Sanitize(text))
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	words := strings.Split(text, " ")
	if len(words) <= descriptionWordLimit {
		return text
	}
	return strings.Join(words[:descriptionWordLimit], " ") + "…"
}
