// Package auth manages local accounts and the session of the logged-in user.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/keyring"
	"github.com/julianstephens/dearme/internal/logger"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
)

var (
	ErrInvalidEmail     = errors.New("the email address is not valid")
	ErrEmailInUse       = errors.New("the email address is already in use by another account")
	ErrUserNotFound     = errors.New("there is no user record corresponding to this email")
	ErrWrongPassword    = errors.New("the password is incorrect")
	ErrWeakPassword     = errors.New("the password is too weak")
	ErrNameRequired     = errors.New("a name is required")
	ErrNotLoggedIn      = errors.New("not logged in, run 'dearme login' first")
	ErrSessionExpired   = errors.New("session expired, log in again")
	ErrInvalidSession   = errors.New("session token is invalid, log in again")
	errUnexpectedMethod = errors.New("unexpected signing method")
)

// SessionStore keeps the signed session token between invocations.
type SessionStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// KeyringSession stores the token in the OS keyring.
type KeyringSession struct{}

func (KeyringSession) Get() (string, error) {
	token, err := keyring.GetSessionToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotLoggedIn
	}
	return token, err
}

func (KeyringSession) Set(token string) error { return keyring.SetSessionToken(token) }

func (KeyringSession) Delete() error {
	err := keyring.DeleteSessionToken()
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Claims is the payload of a session token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service struct {
	store    storage.Provider
	session  SessionStore
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store storage.Provider, session SessionStore) *Service {
	return &Service{
		store:    store,
		session:  session,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return models.User{}, ErrEmailInUse
		}
		return models.User{}, err
	}

	logger.Info("Registered account", "user", user.ID)
	return user, nil
}

// Login verifies the credentials and persists a fresh session token.
func (s *Service) Login(ctx context.Context, in LoginInput) (models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return models.User{}, err
	}

	user, err := s.store.GetUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return models.User{}, ErrWrongPassword
	}

	token, err := s.issue(user)
	if err != nil {
		return models.User{}, err
	}
	if err := s.session.Set(token); err != nil {
		return models.User{}, err
	}

	logger.Info("Logged in", "user", user.ID)
	return user, nil
}

func (s *Service) Logout() error {
	return s.session.Delete()
}

// Current resolves the logged-in user from the stored session token.
func (s *Service) Current(ctx context.Context) (models.User, error) {
	token, err := s.session.Get()
	if err != nil {
		return models.User{}, err
	}

	secret, err := s.secret()
	if err != nil {
		return models.User{}, err
	}

	claims := &Claims{}
	parser := jwt.Parser{}
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnexpectedMethod, t.Header["alg"])
		}
		return secret, nil
	}); err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return models.User{}, ErrSessionExpired
		}
		logger.Debug("Rejected session token", "error", err)
		return models.User{}, ErrInvalidSession
	}

	user, err := s.store.GetUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrInvalidSession
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Service) issue(user models.User) (string, error) {
	secret, err := s.secret()
	if err != nil {
		return "", err
	}

	now := s.now()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constants.AppName,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.SessionTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// secret returns the per-database signing key, creating it on first use.
func (s *Service) secret() ([]byte, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if settings.TokenSecret == "" {
		buf := make([]byte, constants.TokenSecretBytes)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("failed to generate token secret: %w", err)
		}
		settings.TokenSecret = hex.EncodeToString(buf)
		if err := s.store.SaveSettings(settings); err != nil {
			return nil, fmt.Errorf("failed to save token secret: %w", err)
		}
	}

	secret, err := hex.DecodeString(settings.TokenSecret)
	if err != nil {
		return nil, fmt.Errorf("stored token secret is corrupt: %w", err)
	}
	return secret, nil
}

// check runs struct validation and maps the first failure to an auth error.
func (s *Service) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	switch fieldErrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	case "Password":
		if fieldErrs[0].Tag() == "min" {
			return ErrWeakPassword
		}
		return ErrWrongPassword
	case "Name":
		return ErrNameRequired
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
