package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/dearme/internal/storage"
)

func (s *Store) CreateDocument(ctx context.Context, collection, ownerID string, body any) (string, error) {
	ids, err := s.CreateDocuments(ctx, collection, ownerID, []any{body})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *Store) CreateDocuments(ctx context.Context, collection, ownerID string, bodies []any) ([]string, error) {
	if err := storage.ValidateCollection(collection); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, collection, owner_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(bodies))
	for _, body := range bodies {
		data, err := storage.MarshalBody(body)
		if err != nil {
			return nil, err
		}
		id := uuid.New().String()
		createdAt := time.Now().UTC().Format(storage.TimestampFormat)
		if _, err := stmt.ExecContext(ctx, id, collection, ownerID, string(data), createdAt); err != nil {
			return nil, fmt.Errorf("failed to insert %s document: %w", collection, err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit %s documents: %w", collection, err)
	}
	return ids, nil
}

func (s *Store) GetDocument(ctx context.Context, collection, ownerID, id string) (storage.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, collection, owner_id, body, created_at
		FROM documents WHERE collection = ? AND owner_id = ? AND id = ?`,
		collection, ownerID, id)

	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Document{}, fmt.Errorf("%s document %s: %w", collection, id, storage.ErrNotFound)
	}
	return doc, err
}

func (s *Store) QueryDocuments(ctx context.Context, collection, ownerID string, filters ...storage.Filter) ([]storage.Document, error) {
	where, args, err := whereClause(collection, ownerID, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection, owner_id, body, created_at
		FROM documents WHERE `+where+`
		ORDER BY created_at DESC, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []storage.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (s *Store) DeleteDocument(ctx context.Context, collection, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND owner_id = ? AND id = ?",
		collection, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s document: %w", collection, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s document %s: %w", collection, id, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteDocuments(ctx context.Context, collection, ownerID string, filters ...storage.Filter) (int, error) {
	where, args, err := whereClause(collection, ownerID, filters)
	if err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE "+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s documents: %w", collection, err)
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func whereClause(collection, ownerID string, filters []storage.Filter) (string, []any, error) {
	if err := storage.ValidateCollection(collection); err != nil {
		return "", nil, err
	}
	if err := storage.ValidateFilters(filters); err != nil {
		return "", nil, err
	}

	clauses := []string{"collection = ?", "owner_id = ?"}
	args := []any{collection, ownerID}
	for _, f := range filters {
		clauses = append(clauses, "json_extract(body, ?) = ?")
		args = append(args, "$."+f.Field, f.Value)
	}
	return strings.Join(clauses, " AND "), args, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (storage.Document, error) {
	var doc storage.Document
	var body, createdAt string
	if err := row.Scan(&doc.ID, &doc.Collection, &doc.OwnerID, &body, &createdAt); err != nil {
		return storage.Document{}, err
	}

	t, err := time.Parse(storage.TimestampFormat, createdAt)
	if err != nil {
		return storage.Document{}, fmt.Errorf("failed to parse created_at for document %s: %w", doc.ID, err)
	}
	doc.CreatedAt = t
	doc.Body = []byte(body)
	return doc, nil
}
