package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/dearme/internal/auth"
	"github.com/julianstephens/dearme/internal/backup"
	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/keyring"
	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
	"github.com/julianstephens/dearme/internal/storage/postgres"
	"github.com/julianstephens/dearme/internal/storage/sqlite"
)

// KeyringConfig selects the connection string stored in the OS keyring.
const KeyringConfig = "keyring"

type Context struct {
	Store   storage.Provider
	Session auth.SessionStore
	In      io.Reader
	Out     io.Writer
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewContext wires the keyring session and the process stdio.
func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:   store,
		Session: auth.KeyringSession{},
		In:      os.Stdin,
		Out:     os.Stdout,
	}
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) Auth() *auth.Service {
	return auth.NewService(c.Store, c.Session)
}

// CurrentUser resolves the owner of every data command from the session token.
func (c *Context) CurrentUser(ctx context.Context) (models.User, error) {
	return c.Auth().Current(ctx)
}

// Location returns the configured time zone.
func (c *Context) Location() (*time.Location, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, err
	}
	return loadLocation(settings.Timezone)
}

// Clock returns the current time in the configured time zone, so "today"
// is the same day for every command and for the daemon.
func (c *Context) Clock() (func() time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	now := c.Now
	if now == nil {
		now = time.Now
	}
	return func() time.Time { return now().In(loc) }, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || name == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// IsPostgres reports whether config names a PostgreSQL database rather than
// an SQLite file.
func IsPostgres(config string) bool {
	if strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://") {
		return true
	}
	for _, key := range []string{"host=", "dbname=", "user="} {
		if strings.Contains(config, key) {
			return true
		}
	}
	return false
}

// OpenStore picks the storage backend for config. "keyring" reads the
// connection string saved with 'dearme keyring set'. Connection strings
// passed on the command line must not embed a password.
func OpenStore(config string) (storage.Provider, error) {
	if config == KeyringConfig {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
		}
		return postgres.New(connStr), nil
	}

	if IsPostgres(config) {
		if err := postgres.ValidateConnString(config); err != nil {
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := expandPath(config)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path, nil
}

// ConfigDir is where logs and backups live for the given store.
func ConfigDir(store storage.Provider) string {
	if _, ok := store.(*sqlite.Store); ok {
		return filepath.Dir(store.GetConfigPath())
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, constants.AppName)
}
