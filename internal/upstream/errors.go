// Package upstream holds the outbound HTTP plumbing shared by the TMDB and
// AniList clients: retries, a circuit breaker per service and error typing.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrCircuitOpen indicates the circuit breaker is open and blocking calls
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrResponseTooLarge indicates an upstream body exceeded the read limit
	ErrResponseTooLarge = errors.New("upstream response too large")
)

// StatusError is returned when an upstream answers with a non-2xx status
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error: %d", e.Service, e.StatusCode)
}

// IsCircuitOpen checks if err was produced by an open breaker
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrCircuitOpen)
}

// IsStatusError checks if err wraps a StatusError
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// StatusCode returns the upstream status carried by err, or 0
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNotFound reports whether the upstream answered 404
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// isRetryable reports whether err is worth another attempt: transport failures,
// throttling and 5xx responses
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrResponseTooLarge) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= http.StatusInternalServerError
	}
	var decodeErr *decodeError
	return !errors.As(err, &decodeErr)
}

// decodeError marks a response body that could not be decoded
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.err)
}

func (e *decodeError) Unwrap() error {
	return e.err
}
