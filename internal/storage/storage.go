package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/julianstephens/dearme/internal/constants"
)

var (
	// ErrNotFound is returned when a user or document does not exist for the caller
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique value (such as an email) is already taken
	ErrDuplicate = errors.New("already exists")
)

// TimestampFormat keeps a fixed width so text timestamps sort chronologically.
const TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

var fieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var collections = map[string]bool{
	constants.CollectionHabits:      true,
	constants.CollectionJournals:    true,
	constants.CollectionGratitude:   true,
	constants.CollectionReflections: true,
	constants.CollectionABCDE:       true,
	constants.CollectionGoals:       true,
	constants.CollectionVideos:      true,
}

// Document is a stored record. Body holds the JSON encoding of the model.
type Document struct {
	ID         string
	Collection string
	OwnerID    string
	Body       json.RawMessage
	CreatedAt  time.Time
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	if err := json.Unmarshal(d.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s document %s: %w", d.Collection, d.ID, err)
	}
	return nil
}

// Filter matches documents whose top-level JSON field equals Value.
type Filter struct {
	Field string
	Value string
}

// Eq builds a Filter.
func Eq(field, value string) Filter {
	return Filter{Field: field, Value: value}
}

// ValidateCollection rejects unknown collection names.
func ValidateCollection(collection string) error {
	if !collections[collection] {
		return fmt.Errorf("unknown collection %q", collection)
	}
	return nil
}

// ValidateFilters rejects field names that are not plain identifiers.
func ValidateFilters(filters []Filter) error {
	for _, f := range filters {
		if !fieldPattern.MatchString(f.Field) {
			return fmt.Errorf("invalid filter field %q", f.Field)
		}
	}
	return nil
}

// MarshalBody encodes a model for storage.
func MarshalBody(body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("document body must be a JSON object")
	}
	return data, nil
}

// DecodeAll decodes every document into a T and hands each one to setID so
// the caller can copy the store-assigned id onto the model.
func DecodeAll[T any](docs []Document, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.Decode(&v); err != nil {
			return nil, err
		}
		if setID != nil {
			setID(&v, doc.ID)
		}
		out = append(out, v)
	}
	return out, nil
}
