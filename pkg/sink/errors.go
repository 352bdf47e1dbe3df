package sink

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

var (
	// ErrNotConfigured is returned when a backend is missing required settings.
	ErrNotConfigured = errors.New("sink: backend not configured")

	// ErrEmptyCollection is returned when a record has no collection name.
	ErrEmptyCollection = errors.New("sink: collection name required")

	// ErrEmptyPath is returned when a blob has no path.
	ErrEmptyPath = errors.New("sink: blob path required")
)

// OpError wraps a failed backend call.
type OpError struct {
	// Backend is "firebase", "local" or "mock".
	Backend string

	// Op is "create" or "upload".
	Op string

	// Target is the collection or blob path.
	Target string

	Err error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	return fmt.Sprintf("sink [%s]: %s %s: %v", e.Backend, e.Op, e.Target, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status of a failed Google API call, or 0.
func (e *OpError) StatusCode() int {
	var apiErr *googleapi.Error
	if errors.As(e.Err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func wrap(backend, op, target string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Backend: backend, Op: op, Target: target, Err: err}
}
