package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/dearme/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored under the requested entry
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

func get(user string) (string, error) {
	secret, err := keyring.Get(constants.AppName, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(user, secret, what string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, user, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(user, what string) error {
	if err := keyring.Delete(constants.AppName, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetConnectionString retrieves the PostgreSQL connection string.
// Returns ErrNotFound if none is stored.
func GetConnectionString() (string, error) {
	return get(constants.DefaultKeyringUser)
}

func SetConnectionString(connStr string) error {
	return set(constants.DefaultKeyringUser, connStr, "connection string")
}

func DeleteConnectionString() error {
	return del(constants.DefaultKeyringUser, "connection string")
}

// GetSessionToken retrieves the signed token of the logged-in account.
func GetSessionToken() (string, error) {
	return get(constants.SessionKeyringUser)
}

func SetSessionToken(token string) error {
	return set(constants.SessionKeyringUser, token, "session token")
}

func DeleteSessionToken() error {
	return del(constants.SessionKeyringUser, "session token")
}

// IsAvailable is a best-effort check that the OS keyring answers at all.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
