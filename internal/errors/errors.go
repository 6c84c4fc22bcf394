// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// ErrSubmitInFlight is returned when a submit is attempted while a prior
// submission for the same session is still outstanding. The second
// attempt is rejected outright; the first is never cancelled.
var ErrSubmitInFlight = errors.New("a submission for this session is already in flight")

// ErrSessionNotFound is returned for unknown or already-closed session ids.
var ErrSessionNotFound = errors.New("composer session not found")

// ValidationError is a local, recoverable input error. It blocks the
// step transition or submission but never triggers a network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Helper constructor
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// APIError is a non-success response from the upstream marketing API.
// Message carries the server-reported error, or a generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("marketing api: %s (status %d)", e.Message, e.Status)
}

// Helper constructor; substitutes the generic fallback when the server
// gave no message.
func NewAPIError(status int, message string) error {
	if message == "" {
		message = "request failed"
	}
	return &APIError{Status: status, Message: message}
}
