package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
)

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt.UTC().Format(storage.TimestampFormat))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("user %s: %w", user.Email, storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *Store) getUser(ctx context.Context, column, value string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at
		FROM users WHERE `+column+` = ?`, value)

	var u models.User
	var createdAt string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user: %w", storage.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	t, err := time.Parse(storage.TimestampFormat, createdAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	u.CreatedAt = t
	return u, nil
}
