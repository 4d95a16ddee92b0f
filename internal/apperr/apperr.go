// Package apperr defines the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"net/http"
)

// Code classifies a failure for HTTP mapping.
type Code string

const (
	CodeValidation      Code = "VALIDATION"
	CodeNotFound        Code = "NOT_FOUND"
	CodeForbidden       Code = "FORBIDDEN"
	CodeConflict        Code = "CONFLICT"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeInternal        Code = "INTERNAL"
)

// Error is a coded application error with a client-facing message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

// Validation flags a missing or malformed input field.
func Validation(msg string) error { return &Error{Code: CodeValidation, Message: msg} }

// NotFound flags an unresolved entity id.
func NotFound(msg string) error { return &Error{Code: CodeNotFound, Message: msg} }

// Forbidden flags a failed role or ownership check.
func Forbidden(msg string) error { return &Error{Code: CodeForbidden, Message: msg} }

// Conflict flags duplicates and already-terminal state transitions.
func Conflict(msg string) error { return &Error{Code: CodeConflict, Message: msg} }

// Unauthenticated flags a missing or invalid credential.
func Unauthenticated(msg string) error { return &Error{Code: CodeUnauthenticated, Message: msg} }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// Status maps an error to its HTTP status. Conflicts map to 400, matching
// the API's envelope contract.
func Status(err error) int {
	switch CodeOf(err) {
	case CodeValidation, CodeConflict:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
