// Package apperror defines the domain error taxonomy shared by every layer.
//
// ERROR TAXONOMY:
//   - ErrValidation   → missing or malformed input          (HTTP 400)
//   - ErrConflict     → uniqueness violation (email exists)  (HTTP 400)
//   - ErrUnauthorized → bad credentials, missing/bad token   (HTTP 401)
//   - ErrNotFound     → lookup miss inside a store           (never surfaced raw)
//
// Services return *AppError values wrapping one of the sentinels. The HTTP
// layer matches them with errors.Is and reads Message for the response body.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
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
		Message: fmt.Sprintf("%s not found with key %s", resource, key),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation. The message is returned to the
// client verbatim, so it must not echo anything the caller didn't send.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

// Unauthorized returns an AppError for failed authentication.
// Keep the message generic: "Invalid credentials" for both an unknown email
// and a wrong password.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
