package apperrors

import (
	"errors"
	"fmt"
)

// Sentinels. The HTTP layer maps each one to a status and an error code.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = fmt.Errorf("%w: token expired", ErrTokenInvalid)

	ErrPermissionDenied = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidID        = fmt.Errorf("%w: malformed identifier", ErrValidationFailed)

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")

	// Document store or image host misbehaved.
	ErrUpstreamFailure = errors.New("upstream failure")
)

// known lists every sentinel IsKnown accepts.
var known = []error{
	ErrValidationFailed,
	ErrResourceNotFound,
	ErrConflict,
	ErrUnauthenticated,
	ErrInvalidCredentials,
	ErrTokenInvalid,
	ErrPermissionDenied,
	ErrUserNotFound,
	ErrEmailAlreadyExists,
	ErrUpstreamFailure,
}

// CustomError pairs a sentinel with the message shown to API clients and
// optional structured details.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

func (e *CustomError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error { return e.Err }

// WithDetails attaches details and returns e for chaining.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewCustomError tags err with a client-facing message.
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

func NewUnauthenticatedError(message string) error {
	return NewCustomError(ErrUnauthenticated, message)
}

// NewUpstreamError keeps cause reachable through errors.Is while exposing
// only message to clients.
func NewUpstreamError(cause error, message string) error {
	return NewCustomError(errors.Join(ErrUpstreamFailure, cause), message)
}

// Is reports whether err matches target or any of others.
func Is(err, target error, others ...error) bool {
	for _, candidate := range append([]error{target}, others...) {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

// IsKnown reports whether err wraps one of the package sentinels.
func IsKnown(err error) bool {
	for _, sentinel := range known {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// Message returns the client-facing message carried by err, or fallback.
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
