package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/jmoiron/sqlx"
)

// ListCategories loads all categories with their keywords, ordered by id
// so keyword detection scans them in a stable order.
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY id`); err != nil {
		return nil, &apperrors.PersistenceError{Op: "list categories", Err: err}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category_id, keyword FROM category_keywords ORDER BY id`)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list category keywords", Err: err}
	}
	defer rows.Close()

	keywords := make(map[int64][]string)
	for rows.Next() {
		var categoryID int64
		var keyword string
		if err := rows.Scan(&categoryID, &keyword); err != nil {
			return nil, &apperrors.PersistenceError{Op: "scan category keyword", Err: err}
		}
		keywords[categoryID] = append(keywords[categoryID], keyword)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperrors.PersistenceError{Op: "iterate category keywords", Err: err}
	}

	for i := range categories {
		categories[i].Keywords = keywords[categories[i].ID]
	}
	return categories, nil
}

// CreateCategory inserts a category with its keywords. Keyword uniqueness
// is case-insensitive across all categories; a clash is a ValidationError.
func (s *Store) CreateCategory(ctx context.Context, name string, keywords []string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, &apperrors.ValidationError{Field: "name", Reason: "category name cannot be empty"}
	}

	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
		if err != nil {
			if isUniqueViolation(err) {
				return &apperrors.ConflictError{Entity: "category", ID: name, Reason: "name already exists"}
			}
			return &apperrors.PersistenceError{Op: "insert category", Err: err}
		}
		id, err = result.LastInsertId()
		if err != nil {
			return &apperrors.PersistenceError{Op: "insert category", Err: err}
		}
		for _, keyword := range keywords {
			keyword = strings.TrimSpace(keyword)
			if keyword == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO category_keywords (keyword, category_id) VALUES (?, ?)`, keyword, id); err != nil {
				if isUniqueViolation(err) {
					return &apperrors.ValidationError{Field: "keywords", Reason: "keyword already in use: " + keyword}
				}
				return &apperrors.PersistenceError{Op: "insert category keyword", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SyncCategories upserts seed categories, creating missing categories and
// attaching any keywords not yet present. Existing rows are never
// removed; the seed file only ever adds.
func (s *Store) SyncCategories(ctx context.Context, seeds []models.Category) error {
	for _, seed := range seeds {
		name := strings.TrimSpace(seed.Name)
		if name == "" {
			continue
		}

		var id int64
		err := s.db.GetContext(ctx, &id, `SELECT id FROM categories WHERE name = ?`, name)
		if err == sql.ErrNoRows {
			result, insErr := s.db.ExecContext(ctx, `INSERT INTO categories (name) VALUES (?)`, name)
			if insErr != nil {
				return &apperrors.PersistenceError{Op: "seed category", Err: insErr}
			}
			id, insErr = result.LastInsertId()
			if insErr != nil {
				return &apperrors.PersistenceError{Op: "seed category", Err: insErr}
			}
		} else if err != nil {
			return &apperrors.PersistenceError{Op: "lookup category", Err: err}
		}

		for _, keyword := range seed.Keywords {
			keyword = strings.TrimSpace(keyword)
			if keyword == "" {
				continue
			}
			// INSERT OR IGNORE keeps the first owner of a keyword; a seed
			// file that reassigns a keyword does not steal it.
			if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO category_keywords (keyword, category_id) VALUES (?, ?)`, keyword, id); err != nil {
				return &apperrors.PersistenceError{Op: "seed category keyword", Err: err}
			}
		}
		s.logger.WithFields(
			logging.Field{Key: logging.FieldCategory, Value: name},
			logging.Field{Key: logging.FieldCount, Value: len(seed.Keywords)},
		).Debug("Synced seed category")
	}
	return nil
}
