package player

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// ErrInvalidID indicates a TMDB or AniList id that is not a positive integer
var ErrInvalidID = errors.New("invalid id")

var (
	leadingDigits = regexp.MustCompile(`^\s*\d+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9]+`)
)

// ValidateTMDBID parses the leading integer of id and requires it to be positive
func ValidateTMDBID(id string) (int64, error) {
	digits := strings.TrimSpace(leadingDigits.FindString(id))
	if digits == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return n, nil
}

// ParseWatchParam extracts the id from a route parameter like "123-some-title"
func ParseWatchParam(param string) (int64, error) {
	head, _, _ := strings.Cut(param, "-")
	return ValidateTMDBID(head)
}

// Slug turns a title into a lowercase ASCII url segment. Non-Latin scripts
// are transliterated first.
func Slug(title string) string {
	ascii := strings.ToLower(unidecode.Unidecode(title))
	return strings.Trim(nonSlugChars.ReplaceAllString(ascii, "-"), "-")
}

// WatchParam joins an id and the slug of title, as used in watch links
func WatchParam(id int64, title string) string {
	slug := Slug(title)
	if slug == "" {
		return strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("%d-%s", id, slug)
}
