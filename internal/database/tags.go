package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/models"
)

// GetOrCreateTag resolves a tag by exact name, creating it when absent.
// Safe to call repeatedly with the same name across imports; the unique
// constraint on tags.name guarantees a single row per name.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Tag{}, &apperrors.ValidationError{Field: "tag", Reason: "tag name cannot be empty"}
	}

	var tag models.Tag
	err := s.db.GetContext(ctx, &tag, `SELECT id, name FROM tags WHERE name = ?`, name)
	if err == nil {
		return tag, nil
	}
	if err != sql.ErrNoRows {
		return models.Tag{}, &apperrors.PersistenceError{Op: "lookup tag", Err: err}
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent import; reuse the winner.
			if err := s.db.GetContext(ctx, &tag, `SELECT id, name FROM tags WHERE name = ?`, name); err == nil {
				return tag, nil
			}
		}
		return models.Tag{}, &apperrors.PersistenceError{Op: "insert tag", Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Tag{}, &apperrors.PersistenceError{Op: "insert tag", Err: err}
	}
	return models.Tag{ID: id, Name: name}, nil
}

// LinkTransactionTag associates a tag with a transaction. Re-linking an
// existing pair is a no-op.
func (s *Store) LinkTransactionTag(ctx context.Context, transactionID string, tagID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO transaction_tags (transaction_id, tag_id) VALUES (?, ?)`,
		transactionID, tagID)
	if err != nil {
		return &apperrors.PersistenceError{Op: "link transaction tag", Err: err}
	}
	return nil
}

// TagsForTransaction returns the tag names attached to a transaction.
func (s *Store) TagsForTransaction(ctx context.Context, transactionID string) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names,
		`SELECT t.name FROM tags t
		 JOIN transaction_tags tt ON tt.tag_id = t.id
		 WHERE tt.transaction_id = ?
		 ORDER BY t.name`, transactionID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list transaction tags", Err: err}
	}
	return names, nil
}
