package storage

import (
	"context"

	"github.com/julianstephens/dearme/internal/models"
)

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Users
	CreateUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Documents. Every call is scoped to ownerID in the query itself.
	CreateDocument(ctx context.Context, collection, ownerID string, body any) (string, error)
	// CreateDocuments stores all bodies in one transaction, or none of them.
	CreateDocuments(ctx context.Context, collection, ownerID string, bodies []any) ([]string, error)
	GetDocument(ctx context.Context, collection, ownerID, id string) (Document, error)
	// QueryDocuments returns matching documents, newest first.
	QueryDocuments(ctx context.Context, collection, ownerID string, filters ...Filter) ([]Document, error)
	DeleteDocument(ctx context.Context, collection, ownerID, id string) error
	// DeleteDocuments removes every matching document and returns how many were removed.
	DeleteDocuments(ctx context.Context, collection, ownerID string, filters ...Filter) (int, error)

	// Utils
	GetConfigPath() string
}
