package database

import (
	"context"
	"time"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/google/uuid"
)

// RecordImport appends one import-history row. History is append-only
// and never mutated or deleted by the import pipeline.
func (s *Store) RecordImport(ctx context.Context, fileName string, institution models.Institution, accountID int64, rowsImported int) (*models.ImportHistory, error) {
	entry := &models.ImportHistory{
		ID:           uuid.NewString(),
		FileName:     fileName,
		Institution:  institution.String(),
		AccountID:    accountID,
		RowsImported: rowsImported,
		ImportedAt:   time.Now().UTC(),
	}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO import_history (id, file_name, institution, account_id, rows_imported, imported_at)
		 VALUES (:id, :file_name, :institution, :account_id, :rows_imported, :imported_at)`, entry)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "record import history", Err: err}
	}
	return entry, nil
}

// ListImportHistory returns an account's import history, newest first.
func (s *Store) ListImportHistory(ctx context.Context, accountID int64) ([]models.ImportHistory, error) {
	var history []models.ImportHistory
	err := s.db.SelectContext(ctx, &history,
		`SELECT * FROM import_history WHERE account_id = ? ORDER BY imported_at DESC, id`, accountID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list import history", Err: err}
	}
	return history, nil
}
