package catalog

import "errors"

// Catalog service errors
var (
	// ErrInvalidTab indicates a browse tab the media type does not offer
	ErrInvalidTab = errors.New("invalid browse tab")

	// ErrInvalidMediaType indicates a media type the operation cannot serve
	ErrInvalidMediaType = errors.New("invalid media type")

	// ErrTitleNotFound indicates the upstream has no such title
	ErrTitleNotFound = errors.New("title not found")
)

// IsInvalidTab checks if the error is an invalid tab error
func IsInvalidTab(err error) bool {
	return errors.Is(err, ErrInvalidTab)
}

// IsInvalidMediaType checks if the error is an invalid media type error
func IsInvalidMediaType(err error) bool {
	return errors.Is(err, ErrInvalidMediaType)
}

// IsTitleNotFound checks if the error is a title not found error
func IsTitleNotFound(err error) bool {
	return errors.Is(err, ErrTitleNotFound)
}
