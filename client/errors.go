// Package client is the Go client for the Readly API. It carries the
// client-side core of the app: an explicit session (no ambient token
// state) and the progress reconciler that computes the minimal set of
// writes for a shelf edit.
package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Input validation failures, rejected before any network call.
var (
	ErrInvalidPageNumber = errors.New("page must be a non-negative whole number")
	ErrPageExceedsTotal  = errors.New("page exceeds the book's total page count")
)

// Remote failure kinds. APIError unwraps to one of these so callers can
// branch with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRemote       = errors.New("remote error")
)

// APIError is a failed API call. Message carries the server-provided error
// text when the response body had one, or a generic fallback.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return ErrRemote
	}
}
