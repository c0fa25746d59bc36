package hevy

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized = errors.New("hevy: invalid or missing api key")
	ErrNotFound     = errors.New("hevy: resource not found")
	ErrBadRequest   = errors.New("hevy: request rejected")
	ErrRateLimited  = errors.New("hevy: rate limited")
)

// APIError is a non-success response from the service.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hevy: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Is maps status codes onto the package sentinels so callers can use
// errors.Is(err, hevy.ErrNotFound).
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	case ErrRateLimited:
		return e.StatusCode == http.StatusTooManyRequests
	}
	return false
}
