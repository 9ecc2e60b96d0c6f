// Package entries stores the free-text journaling features: journal pages,
// gratitude items, reflections, ABCDE exercises and daily goals.
package entries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/dearme/internal/constants"
	"github.com/julianstephens/dearme/internal/models"
	"github.com/julianstephens/dearme/internal/storage"
)

// ErrEmptyField is matched by every *EmptyFieldError.
var ErrEmptyField = errors.New("field must not be empty")

type EmptyFieldError struct {
	Field string
}

func (e *EmptyFieldError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

func (e *EmptyFieldError) Is(target error) bool {
	return target == ErrEmptyField
}

// Kind describes how one entry type is stored.
type Kind[T any] struct {
	Collection string
	// Normalize trims user input in place.
	Normalize func(*T)
	// Stamp copies store-managed metadata onto the model.
	Stamp func(v *T, id, ownerID string, createdAt time.Time)
	// Summary is a one-line preview used by list views.
	Summary func(T) string
}

// Service is the CRUD surface shared by every entry kind.
type Service[T any] struct {
	store    storage.Provider
	kind     Kind[T]
	validate *validator.Validate
	now      func() time.Time
}

func NewService[T any](store storage.Provider, kind Kind[T]) *Service[T] {
	return &Service[T]{
		store:    store,
		kind:     kind,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Add trims and validates v, then stores it for ownerID.
func (s *Service[T]) Add(ctx context.Context, ownerID string, v T) (T, error) {
	var zero T
	s.kind.Normalize(&v)
	if err := s.validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return zero, &EmptyFieldError{Field: strings.ToLower(fieldErrs[0].Field())}
		}
		return zero, err
	}

	createdAt := s.now().UTC()
	s.kind.Stamp(&v, "", ownerID, createdAt)
	id, err := s.store.CreateDocument(ctx, s.kind.Collection, ownerID, v)
	if err != nil {
		return zero, err
	}
	s.kind.Stamp(&v, id, ownerID, createdAt)
	return v, nil
}

// List returns the owner's entries, newest first.
func (s *Service[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	docs, err := s.store.QueryDocuments(ctx, s.kind.Collection, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.Decode(&v); err != nil {
			return nil, err
		}
		s.kind.Stamp(&v, doc.ID, ownerID, doc.CreatedAt)
		out = append(out, v)
	}
	return out, nil
}

func (s *Service[T]) Get(ctx context.Context, ownerID, id string) (T, error) {
	var v T
	doc, err := s.store.GetDocument(ctx, s.kind.Collection, ownerID, id)
	if err != nil {
		return v, err
	}
	if err := doc.Decode(&v); err != nil {
		return v, err
	}
	s.kind.Stamp(&v, doc.ID, ownerID, doc.CreatedAt)
	return v, nil
}

func (s *Service[T]) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.DeleteDocument(ctx, s.kind.Collection, ownerID, id)
}

// Summary renders the one-line preview of v.
func (s *Service[T]) Summary(v T) string {
	return s.kind.Summary(v)
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// Journals is free-form journaling.
var Journals = Kind[models.JournalEntry]{
	Collection: constants.CollectionJournals,
	Normalize:  func(v *models.JournalEntry) { trim(&v.Entry) },
	Stamp: func(v *models.JournalEntry, id, ownerID string, createdAt time.Time) {
		v.ID, v.OwnerID, v.CreatedAt = id, ownerID, createdAt
	},
	Summary: func(v models.JournalEntry) string { return v.Entry },
}

var Gratitude = Kind[models.Gratitude]{
	Collection: constants.CollectionGratitude,
	Normalize:  func(v *models.Gratitude) { trim(&v.Gratitude) },
	Stamp: func(v *models.Gratitude, id, ownerID string, createdAt time.Time) {
		v.ID, v.OwnerID, v.CreatedAt = id, ownerID, createdAt
	},
	Summary: func(v models.Gratitude) string { return v.Gratitude },
}

var Reflections = Kind[models.Reflection]{
	Collection: constants.CollectionReflections,
	Normalize:  func(v *models.Reflection) { trim(&v.Reflection) },
	Stamp: func(v *models.Reflection, id, ownerID string, createdAt time.Time) {
		v.ID, v.OwnerID, v.CreatedAt = id, ownerID, createdAt
	},
	Summary: func(v models.Reflection) string { return v.Reflection },
}

// ABCDE requires all five steps of the exercise.
var ABCDE = Kind[models.ABCDE]{
	Collection: constants.CollectionABCDE,
	Normalize:  func(v *models.ABCDE) { trim(&v.A, &v.B, &v.C, &v.D, &v.E) },
	Stamp: func(v *models.ABCDE, id, ownerID string, createdAt time.Time) {
		v.ID, v.OwnerID, v.CreatedAt = id, ownerID, createdAt
	},
	Summary: func(v models.ABCDE) string { return v.A + " → " + v.E },
}

var Goals = Kind[models.Goal]{
	Collection: constants.CollectionGoals,
	Normalize:  func(v *models.Goal) { trim(&v.Goal) },
	Stamp: func(v *models.Goal, id, ownerID string, createdAt time.Time) {
		v.ID, v.OwnerID, v.CreatedAt = id, ownerID, createdAt
	},
	Summary: func(v models.Goal) string { return v.Goal },
}
