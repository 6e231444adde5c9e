package library

import "errors"

// Library errors
var (
	// ErrAlreadyBookmarked indicates the title is already in the user's bookmarks
	ErrAlreadyBookmarked = errors.New("title already bookmarked")

	// ErrBookmarkNotFound indicates the user has not bookmarked the title
	ErrBookmarkNotFound = errors.New("bookmark not found")

	// ErrHistoryNotFound indicates the user has no history entry for the title
	ErrHistoryNotFound = errors.New("history entry not found")

	// ErrInvalidProgress indicates a progress value outside 0-100
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// ErrInvalidItem indicates a play or bookmark request missing its id or type
	ErrInvalidItem = errors.New("invalid library item")
)

// IsAlreadyBookmarked checks if the error is an already bookmarked error
func IsAlreadyBookmarked(err error) bool {
	return errors.Is(err, ErrAlreadyBookmarked)
}

// IsNotFound checks if the error is a missing bookmark or history entry
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBookmarkNotFound) || errors.Is(err, ErrHistoryNotFound)
}
