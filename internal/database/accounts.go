package database

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/models"
)

// GetAccount fetches an account by id.
func (s *Store) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := s.db.GetContext(ctx, &account, `SELECT id, name, created_at FROM accounts WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, &apperrors.NotFoundError{Entity: "account", ID: strconv.FormatInt(id, 10)}
	}
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "get account", Err: err}
	}
	return &account, nil
}

// GetOrCreateAccount resolves an account by name, creating it when
// absent.
func (s *Store) GetOrCreateAccount(ctx context.Context, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &apperrors.ValidationError{Field: "account", Reason: "account name cannot be empty"}
	}

	var account models.Account
	err := s.db.GetContext(ctx, &account, `SELECT id, name, created_at FROM accounts WHERE name = ?`, name)
	if err == nil {
		return &account, nil
	}
	if err != sql.ErrNoRows {
		return nil, &apperrors.PersistenceError{Op: "lookup account", Err: err}
	}

	result, err := s.db.ExecContext(ctx, `INSERT INTO accounts (name) VALUES (?)`, name)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "insert account", Err: err}
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "insert account", Err: err}
	}
	return s.GetAccount(ctx, id)
}
