// Package player builds embed URLs for the third-party players the portal
// frames. Nothing flows back from the players.
package player

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/stwalsh4118/akmovies/internal/config"
	"github.com/stwalsh4118/akmovies/internal/models"
)

const (
	defaultColor      = "e94560"
	playerServerParam = "13"
)

var (
	// ErrInvalidMediaType indicates a media type the player cannot embed
	ErrInvalidMediaType = errors.New("invalid media type, must be movie or tv")

	// ErrAnimeServerNotConfigured indicates no anime embed server is set
	ErrAnimeServerNotConfigured = errors.New("anime server url not configured")
)

// Builder creates embed URLs from the player configuration
type Builder struct {
	animeServerURL string
	color          string
	vidsrcDomains  []string
}

// NewBuilder creates a builder
func NewBuilder(cfg config.PlayerConfig) *Builder {
	color := cfg.Color
	if color == "" {
		color = defaultColor
	}
	domains := cfg.VidsrcDomains
	if len(domains) == 0 {
		domains = DefaultVidsrcDomains()
	}
	return &Builder{
		animeServerURL: strings.TrimRight(cfg.ServerURL, "/"),
		color:          color,
		vidsrcDomains:  domains,
	}
}

// playerQuery is the query string every server-list player receives
func (b *Builder) playerQuery() string {
	color := url.QueryEscape(b.color)
	return fmt.Sprintf("color=%s&autoplay=true&primarycolor=%s&server=%s", color, color, playerServerParam)
}

// ServerURL builds the embed URL of a movie or episode on one server
func (b *Builder) ServerURL(server *models.Server, mediaType models.MediaType, id int64, season, episode int) (string, error) {
	base := strings.TrimRight(server.URL, "/")
	switch mediaType {
	case models.MediaTypeMovie:
		return fmt.Sprintf("%s/movie/%d/?%s", base, id, b.playerQuery()), nil
	case models.MediaTypeTV:
		season, episode = atLeastOne(season), atLeastOne(episode)
		return fmt.Sprintf("%s/tv/%d/%d/%d/?%s", base, id, season, episode, b.playerQuery()), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}
}

// Embed is a playable URL on one server
type Embed struct {
	ServerID uuid.UUID `json:"server_id"`
	Name     string    `json:"name"`
	URL      string    `json:"url"`
}

// ServerURLs builds an embed for every server, in list order
func (b *Builder) ServerURLs(servers []*models.Server, mediaType models.MediaType, id int64, season, episode int) ([]Embed, error) {
	embeds := make([]Embed, 0, len(servers))
	for _, s := range servers {
		u, err := b.ServerURL(s, mediaType, id, season, episode)
		if err != nil {
			return nil, err
		}
		embeds = append(embeds, Embed{ServerID: s.ID, Name: s.Name, URL: u})
	}
	return embeds, nil
}

// AnimeURL builds the anime server embed URL for one episode
func (b *Builder) AnimeURL(id int64, episode int, dub bool) (string, error) {
	if b.animeServerURL == "" {
		return "", ErrAnimeServerNotConfigured
	}
	u := fmt.Sprintf("%s/anime/%d/%d/?%s", b.animeServerURL, id, atLeastOne(episode), b.playerQuery())
	if dub {
		u += "&dub=true"
	}
	return u, nil
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
