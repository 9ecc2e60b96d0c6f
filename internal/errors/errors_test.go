package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/julianstephens/dearme/internal/auth"
	"github.com/julianstephens/dearme/internal/entries"
	"github.com/julianstephens/dearme/internal/keyring"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("something went wrong"), expected: "Error: something went wrong"},
		{
			name:     "wrapped validation error",
			err:      fmt.Errorf("habit add: %w", &reminder.ValidationError{Field: "description", Reason: "must not be empty"}),
			expected: "Error: habit add: description: must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s (%d)", "journals", 2)
	if got != "Error: failed to load journals (2)" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain", err: errors.New("boom"), want: ExitFailure},
		{name: "validation", err: fmt.Errorf("add: %w", &reminder.ValidationError{Field: "cadence", Reason: "unknown"}), want: ExitInvalid},
		{name: "empty entry field", err: &entries.EmptyFieldError{Field: "entry"}, want: ExitInvalid},
		{name: "not logged in", err: auth.ErrNotLoggedIn, want: ExitAuth},
		{name: "wrong password", err: auth.ErrWrongPassword, want: ExitAuth},
		{name: "not found", err: fmt.Errorf("goals document x: %w", storage.ErrNotFound), want: ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	if got := Hint(auth.ErrSessionExpired); got == "" {
		t.Error("expected a hint for an expired session")
	}
	if got := Hint(fmt.Errorf("open: %w", keyring.ErrKeyringUnavailable)); got == "" {
		t.Error("expected a hint for an unavailable keyring")
	}
	if got := Hint(errors.New("boom")); got != "" {
		t.Errorf("Hint(boom) = %q, want empty", got)
	}
}
