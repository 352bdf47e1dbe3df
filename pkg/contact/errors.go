package contact

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("contact: validation failed")

	// ErrSubmission is wrapped by every SubmissionError.
	ErrSubmission = errors.New("contact: submission failed")

	// ErrUnknownKind is returned for form kinds that do not exist.
	ErrUnknownKind = errors.New("contact: unknown form kind")

	// ErrUnknownField is returned when setting a field the form does not have.
	ErrUnknownField = errors.New("contact: unknown field")

	// ErrBusy is returned when a draft is submitted while already submitting.
	ErrBusy = errors.New("contact: submission in progress")
)

// ValidationError lists required fields that were left empty.
type ValidationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: missing required fields: %s", strings.Join(e.Fields, ", "))
}

// Unwrap returns ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// SubmissionError wraps a sink failure. The cause is for logs; users only see
// ErrorMessage.
type SubmissionError struct {
	Kind Kind
	Step string // "upload" or "record"
	Err  error
}

// Error implements the error interface.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("contact: %s %s failed: %v", e.Kind, e.Step, e.Err)
}

// Unwrap returns both ErrSubmission and the cause.
func (e *SubmissionError) Unwrap() []error {
	return []error{ErrSubmission, e.Err}
}
