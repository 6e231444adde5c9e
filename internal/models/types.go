package models

import (
	"errors"
	"fmt"
	"strings"
)

// MediaType identifies which catalog a title belongs to
type MediaType string

// Media type constants
const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
	MediaTypeAnime MediaType = "anime"
)

// ErrInvalidMediaType indicates a media type outside movie, tv and anime
var ErrInvalidMediaType = errors.New("invalid media type")

// ParseMediaType validates and normalizes a media type string
func ParseMediaType(s string) (MediaType, error) {
	switch mt := MediaType(strings.ToLower(strings.TrimSpace(s))); mt {
	case MediaTypeMovie, MediaTypeTV, MediaTypeAnime:
		return mt, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
	}
}

// String returns the raw media type value
func (m MediaType) String() string {
	return string(m)
}

// DocID builds the composite document key "{mediaType}_{id}" shared by
// history, bookmark and recommendation records
func DocID(mediaType MediaType, id int64) string {
	return fmt.Sprintf("%s_%d", mediaType, id)
}
