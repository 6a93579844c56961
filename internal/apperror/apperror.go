// Package apperror defines the application's error taxonomy.
//
// Services return these domain errors; the HTTP layer translates them to
// status codes in one place (handler/response.go). Sentinel errors are
// matched with errors.Is, the *AppError wrapper is extracted with errors.As
// for the human-readable message and field details.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Violation is a single failed validation rule, tied to the input field
// that caused it. Registration can fail several rules at once, so
// validation errors carry a slice of these.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError wraps a sentinel error with a human-readable message and,
// for validation failures, the per-field violations.
type AppError struct {
	Err        error  // sentinel, for errors.Is matching
	Message    string // human-readable error message
	Violations []Violation
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, key string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// ValidationFailed reports one or more violated input rules.
func ValidationFailed(violations ...Violation) *AppError {
	msg := "validation failed"
	if len(violations) == 1 {
		msg = violations[0].Message
	}
	return &AppError{
		Err:        ErrValidation,
		Message:    msg,
		Violations: violations,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden indicates the caller is authenticated but lacks permission.
// HTTP handlers map this to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized indicates a missing or invalid token. HTTP handlers map
// this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// InvalidCredentials is the single failure returned for a bad login.
// The message is deliberately identical whether the username was unknown
// or the password was wrong — callers must not be able to enumerate
// accounts from the response.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid username or password",
	}
}
