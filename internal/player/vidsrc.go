package player

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/stwalsh4118/akmovies/internal/models"
)

const defaultVidsrcVersion = "v2"

// DefaultVidsrcDomains returns the Vidsrc mirrors, primary first
func DefaultVidsrcDomains() []string {
	return []string{
		"https://vidsrc.cc",
		"https://vidsrc.to",
		"https://vidsrc.me",
		"https://vidsrc.xyz",
	}
}

// VidsrcOptions tunes a Vidsrc embed URL. The zero value shows the poster and
// does not autoplay.
type VidsrcOptions struct {
	Version     string
	HidePoster  bool
	AutoPlay    bool
	DomainIndex int
}

// VidsrcURL builds a Vidsrc embed URL. For TV, season and episode narrow the
// embed when positive; an episode without a season is ignored.
func (b *Builder) VidsrcURL(mediaType models.MediaType, id int64, season, episode int, opts VidsrcOptions) (string, error) {
	version := opts.Version
	if version == "" {
		version = defaultVidsrcVersion
	}
	base := b.vidsrcDomains[0]
	if opts.DomainIndex > 0 && opts.DomainIndex < len(b.vidsrcDomains) {
		base = b.vidsrcDomains[opts.DomainIndex]
	}
	base = strings.TrimRight(base, "/")

	var path string
	switch mediaType {
	case models.MediaTypeMovie:
		path = fmt.Sprintf("%s/%s/embed/movie/%d", base, version, id)
	case models.MediaTypeTV:
		path = fmt.Sprintf("%s/%s/embed/tv/%d", base, version, id)
		if season > 0 {
			path += fmt.Sprintf("/%d", season)
			if episode > 0 {
				path += fmt.Sprintf("/%d", episode)
			}
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, mediaType)
	}

	params := url.Values{}
	if opts.HidePoster {
		params.Set("poster", "false")
	}
	if opts.AutoPlay {
		params.Set("autoPlay", "true")
	}
	if len(params) == 0 {
		return path, nil
	}
	return path + "?" + params.Encode(), nil
}

// VidsrcFallbacks builds the same embed on every mirror after the primary
func (b *Builder) VidsrcFallbacks(mediaType models.MediaType, id int64, season, episode int, opts VidsrcOptions) ([]string, error) {
	out := make([]string, 0, len(b.vidsrcDomains)-1)
	for i := 1; i < len(b.vidsrcDomains); i++ {
		opts.DomainIndex = i
		u, err := b.VidsrcURL(mediaType, id, season, episode, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}
