package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
)

const uniqueViolation = pq.ErrorCode("23505")

func (s *Store) CreateUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
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
		FROM users WHERE `+column+` = $1`, value)

	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user: %w", storage.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}
