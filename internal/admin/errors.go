package admin

import "errors"

// Admin service errors
var (
	// ErrServerNotFound indicates the server does not exist
	ErrServerNotFound = errors.New("server not found")

	// ErrInvalidServer indicates a server without a name or a valid url
	ErrInvalidServer = errors.New("server name and url are required")

	// ErrInvalidReorder indicates a reorder list that is not a permutation of the servers
	ErrInvalidReorder = errors.New("reorder must list every server exactly once")

	// ErrRecommendationNotFound indicates the recommendation does not exist
	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrInvalidRecommendation indicates a recommendation missing its id, type or title
	ErrInvalidRecommendation = errors.New("invalid recommendation")

	// ErrUserNotFound indicates the user does not exist
	ErrUserNotFound = errors.New("user not found")
)

// IsNotFound checks if the error is any admin not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrServerNotFound) ||
		errors.Is(err, ErrRecommendationNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation checks if the error is an admin input validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidServer) ||
		errors.Is(err, ErrInvalidReorder) ||
		errors.Is(err, ErrInvalidRecommendation)
}
