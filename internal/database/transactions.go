package database

import (
	"context"
	"database/sql"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/jmoiron/sqlx"
)

const insertTransactionSQL = `
	INSERT OR IGNORE INTO transactions
		(id, account_id, category_id, parent_id, transaction_date, description, amount, original_data, content_hash, imported_at)
	VALUES
		(:id, :account_id, :category_id, :parent_id, :transaction_date, :description, :amount, :original_data, :content_hash, :imported_at)`

// BulkInsertTransactions inserts a batch of transactions in one database
// transaction. Rows colliding on the (account_id, content_hash) unique
// constraint are silently skipped; the return value is the number of rows
// actually inserted. Either the whole batch is visible or none of it is.
func (s *Store) BulkInsertTransactions(ctx context.Context, transactions []models.Transaction) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for i := range transactions {
			result, err := tx.NamedExecContext(ctx, insertTransactionSQL, &transactions[i])
			if err != nil {
				return &apperrors.PersistenceError{Op: "insert transaction", Err: err}
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return &apperrors.PersistenceError{Op: "insert transaction", Err: err}
			}
			inserted += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldImported, Value: inserted},
		logging.Field{Key: logging.FieldSkipped, Value: len(transactions) - inserted},
	).Debug("Bulk insert finished")
	return inserted, nil
}

// GetTransaction fetches one transaction by id, including its tags.
func (s *Store) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := s.db.GetContext(ctx, &tx, `SELECT * FROM transactions WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, &apperrors.NotFoundError{Entity: "transaction", ID: id}
	}
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "get transaction", Err: err}
	}
	tags, err := s.TagsForTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	tx.Tags = tags
	return &tx, nil
}

// GetTransactionsByHashes returns the transactions in an account whose
// content hashes are in the given set. Fingerprints are unique within an
// account, which is what makes this reverse lookup possible after a bulk
// insert.
func (s *Store) GetTransactionsByHashes(ctx context.Context, accountID int64, hashes []string) (map[string]models.Transaction, error) {
	if len(hashes) == 0 {
		return map[string]models.Transaction{}, nil
	}
	query, args, err := sqlx.In(
		`SELECT * FROM transactions WHERE account_id = ? AND content_hash IN (?)`, accountID, hashes)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "build hash lookup", Err: err}
	}
	var transactions []models.Transaction
	if err := s.db.SelectContext(ctx, &transactions, s.db.Rebind(query), args...); err != nil {
		return nil, &apperrors.PersistenceError{Op: "lookup transactions by hash", Err: err}
	}
	byHash := make(map[string]models.Transaction, len(transactions))
	for _, tx := range transactions {
		byHash[tx.ContentHash] = tx
	}
	return byHash, nil
}

// CountSplits returns how many split children a transaction has.
func (s *Store) CountSplits(ctx context.Context, parentID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions WHERE parent_id = ?`, parentID)
	if err != nil {
		return 0, &apperrors.PersistenceError{Op: "count splits", Err: err}
	}
	return count, nil
}

// ListSplits returns the split children of a transaction in insertion
// order.
func (s *Store) ListSplits(ctx context.Context, parentID string) ([]models.Transaction, error) {
	var children []models.Transaction
	err := s.db.SelectContext(ctx, &children,
		`SELECT * FROM transactions WHERE parent_id = ? ORDER BY rowid`, parentID)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list splits", Err: err}
	}
	return children, nil
}

// InsertSplitChildren creates all children of a split as one atomic
// group. A failure on any child leaves nothing applied.
func (s *Store) InsertSplitChildren(ctx context.Context, children []models.Transaction) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for i := range children {
			if _, err := tx.NamedExecContext(ctx, insertTransactionSQL, &children[i]); err != nil {
				return &apperrors.PersistenceError{Op: "insert split child", Err: err}
			}
		}
		return nil
	})
}

// DeleteSplitChildren removes every child of the given parent in one
// atomic operation and returns how many rows were deleted. The parent row
// is untouched.
func (s *Store) DeleteSplitChildren(ctx context.Context, parentID string) (int, error) {
	deleted := 0
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE parent_id = ?`, parentID)
		if err != nil {
			return &apperrors.PersistenceError{Op: "delete split children", Err: err}
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return &apperrors.PersistenceError{Op: "delete split children", Err: err}
		}
		deleted = int(affected)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// DeleteTransaction removes a single transaction. A parent that still has
// split children must go through unsplit first; deleting it directly is
// rejected.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	count, err := s.CountSplits(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &apperrors.ConflictError{Entity: "transaction", ID: id, Reason: "has split children, unsplit first"}
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete transaction", Err: err}
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return &apperrors.PersistenceError{Op: "delete transaction", Err: err}
	}
	if affected == 0 {
		return &apperrors.NotFoundError{Entity: "transaction", ID: id}
	}
	return nil
}

// ListTransactionsByAccount returns an account's transactions ordered by
// date. When excludeSplitParents is set, rows that have split children
// are filtered out so aggregations count leaves only and never
// double-count a split envelope alongside its children.
func (s *Store) ListTransactionsByAccount(ctx context.Context, accountID int64, excludeSplitParents bool) ([]models.Transaction, error) {
	query := `SELECT * FROM transactions WHERE account_id = ?`
	if excludeSplitParents {
		query += ` AND id NOT IN (SELECT DISTINCT parent_id FROM transactions WHERE parent_id IS NOT NULL)`
	}
	query += ` ORDER BY transaction_date, rowid`

	var transactions []models.Transaction
	if err := s.db.SelectContext(ctx, &transactions, query, accountID); err != nil {
		return nil, &apperrors.PersistenceError{Op: "list transactions", Err: err}
	}
	return transactions, nil
}
