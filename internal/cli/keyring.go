package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/dearme/internal/keyring"
	"github.com/julianstephens/dearme/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string, password included."`
}

func (c *KeyringSetCmd) Run(ctx *Context) error {
	if !IsPostgres(c.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	// The keyring is the one place a password may live.
	if err := postgres.ValidateConnString(c.ConnectionString); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return fmt.Errorf("invalid connection string: %w", err)
	}

	if err := keyring.SetConnectionString(c.ConnectionString); err != nil {
		return err
	}
	ctx.println("✓ Connection string stored in OS keyring")
	ctx.printf("  Use --config %s to connect with it\n", KeyringConfig)
	return nil
}

type KeyringGetCmd struct{}

func (c *KeyringGetCmd) Run(ctx *Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring, use 'dearme keyring set' to store one")
	}
	if err != nil {
		return err
	}
	ctx.println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (c *KeyringDeleteCmd) Run(ctx *Context) error {
	err := keyring.DeleteConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring")
	}
	if err != nil {
		return err
	}
	ctx.println("✓ Connection string deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (c *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		ctx.println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.println("✓ OS keyring is available")

	if _, err := keyring.GetConnectionString(); err == nil {
		ctx.println("✓ Connection string is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.println("ℹ No connection string stored in keyring")
	}
	return nil
}

func maskPassword(connStr string) string {
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		if u, err := url.Parse(connStr); err == nil {
			return u.Redacted()
		}
	}

	fields := strings.Fields(connStr)
	for i, f := range fields {
		if strings.HasPrefix(strings.ToLower(f), "password=") {
			fields[i] = "password=xxxxx"
		}
	}
	return strings.Join(fields, " ")
}
