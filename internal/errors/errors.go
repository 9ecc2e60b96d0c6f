package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/dearme/internal/auth"
	"github.com/julianstephens/dearme/internal/entries"
	"github.com/julianstephens/dearme/internal/keyring"
	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/reminder"
	"github.com/julianstephens/dearme/internal/storage"
)

// Exit codes reported by Fatal.
const (
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitAuth     = 3
	ExitNotFound = 4
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// ExitCode classifies err for the process exit status.
func ExitCode(err error) int {
	var empty *entries.EmptyFieldError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, reminder.ErrValidation), errors.As(err, &empty):
		return ExitInvalid
	case errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrSessionExpired),
		errors.Is(err, auth.ErrInvalidSession), errors.Is(err, auth.ErrWrongPassword):
		return ExitAuth
	case errors.Is(err, storage.ErrNotFound):
		return ExitNotFound
	}
	return ExitFailure
}

// Hint suggests a next step for errors the user can fix, or "".
func Hint(err error) string {
	switch {
	case errors.Is(err, auth.ErrSessionExpired), errors.Is(err, auth.ErrInvalidSession):
		return "Run 'dearme login' to start a new session."
	case errors.Is(err, keyring.ErrKeyringUnavailable):
		return "Pass the connection with --config or DEARME_CONFIG instead of the keyring."
	case errors.Is(err, storage.ErrNotFound):
		return "List ids with the matching 'list' command."
	}
	return ""
}

// Fatal logs an error, prints it with its hint and exits with ExitCode(err).
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err, "exit", ExitCode(err))
	fmt.Fprintln(os.Stderr, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(ExitCode(err))
}
