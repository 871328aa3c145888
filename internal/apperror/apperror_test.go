package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("account", "a@b.com"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("payload", "Missing payload"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("email", "User exists"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("Invalid credentials"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Unauthorized does NOT match ErrValidation",
			err:       Unauthorized("Invalid token"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Conflict does NOT match ErrValidation",
			err:       Conflict("email", "User exists"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "wrapped with fmt.Errorf still matches",
			err:       fmt.Errorf("service/auth: signing up: %w", Conflict("email", "User exists")),
			target:    ErrConflict,
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and key",
			err:         NotFound("account", "a@b.com"),
			wantMessage: "account not found with key a@b.com",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("email", "Missing email or password"),
			wantMessage: "Missing email or password",
		},
		{
			name:        "Conflict uses custom message",
			err:         Conflict("email", "User exists"),
			wantMessage: "User exists",
		},
		{
			name:        "Unauthorized uses custom message",
			err:         Unauthorized("Invalid credentials"),
			wantMessage: "Invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestAsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", ValidationFailed("payload", "Missing payload"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() did not find *AppError in the chain")
	}
	if appErr.Field != "payload" {
		t.Errorf("Field = %q, want %q", appErr.Field, "payload")
	}
	if appErr.Unwrap() != ErrValidation {
		t.Errorf("Unwrap() = %v, want %v", appErr.Unwrap(), ErrValidation)
	}
}
