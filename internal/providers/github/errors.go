package github

import (
	"errors"
	"fmt"
)

// Error taxonomy for the API client. 4xx errors indicate requests that will
// not succeed on resubmission and are never retried; rate-limit errors are
// retried within the client's attempt budget before ErrRateLimitExceeded is
// surfaced.
var (
	ErrNotFound          = errors.New("github: not found")
	ErrUnauthorized      = errors.New("github: unauthorized")
	ErrForbidden         = errors.New("github: forbidden")
	ErrRateLimited       = errors.New("github: rate limited")
	ErrRateLimitExceeded = errors.New("github: rate limit retries exhausted")
	ErrNotAFile          = errors.New("github: path is not a file")
	ErrMalformedResponse = errors.New("github: malformed response")
)

// APIError carries the HTTP status of a failed request alongside the
// taxonomy sentinel it unwraps to.
type APIError struct {
	StatusCode int
	Path       string
	Sentinel   error
}

func (e *APIError) Error() string {
	if e.Sentinel != nil {
		return fmt.Sprintf("%v: %s (status %d)", e.Sentinel, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("github: request to %s failed with status %d", e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
