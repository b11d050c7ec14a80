package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure conditions pages branch on
// explicitly: an absent record renders a "not found" state, and a
// rejected credential forces the session back to anonymous.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// ConnectionError indicates the backend could not be reached at all
// (DNS failure, refused connection, timeout). It is distinct from a
// server-reported error so the UI can suggest the server may be down.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cannot reach the AcademiaConnect server at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the backend. Message carries the
// server-provided message when the body had one, else a generic
// status-based fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

// IsConnectionError reports whether err is (or wraps) a ConnectionError.
func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}
