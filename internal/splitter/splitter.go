// Package splitter decomposes a transaction into child transactions
// whose amounts sum exactly to the parent, and reverses that
// decomposition. Nesting is single-level: a split child can never be
// split again.
package splitter

import (
	"context"

	"github.com/ruslany/expense-tracker/internal/apperrors"
	"github.com/ruslany/expense-tracker/internal/database"
	"github.com/ruslany/expense-tracker/internal/fingerprint"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitLine describes one proposed child of a split.
type SplitLine struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  *int64          `json:"categoryId,omitempty"`
}

// Engine performs split and unsplit operations.
type Engine struct {
	store  *database.Store
	logger logging.Logger
}

// New creates a split Engine.
func New(store *database.Store, logger logging.Logger) *Engine {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Engine{store: store, logger: logger}
}

// Split decomposes the transaction into one child per line. Preconditions
// are checked in order and the first violation wins: the parent must
// exist, must not itself be a split child, must have no existing splits,
// and the line amounts must sum to the parent amount within one cent.
//
// The parent row is neither deleted nor mutated; it remains addressable
// as the envelope for a later unsplit. All children are created
// atomically.
func (e *Engine) Split(ctx context.Context, transactionID string, lines []SplitLine) ([]models.Transaction, error) {
	parent, err := e.store.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if parent.IsSplitChild() {
		return nil, &apperrors.ConflictError{Entity: "transaction", ID: transactionID, Reason: "cannot split a split child"}
	}
	existing, err := e.store.CountSplits(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, &apperrors.ConflictError{Entity: "transaction", ID: transactionID, Reason: "already split, unsplit first"}
	}
	if len(lines) == 0 {
		return nil, &apperrors.ValidationError{Field: "splits", Reason: "at least one split line is required"}
	}

	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.Amount)
	}
	if sum.Sub(parent.Amount).Abs().GreaterThanOrEqual(models.SplitTolerance) {
		return nil, apperrors.NewSumMismatchError(parent.Amount, sum)
	}

	children := make([]models.Transaction, len(lines))
	for i, line := range lines {
		description := line.Description
		if description == "" {
			description = parent.Description
		}
		parentID := parent.ID
		children[i] = models.Transaction{
			ID:           uuid.NewString(),
			AccountID:    parent.AccountID,
			Date:         parent.Date,
			Description:  description,
			Amount:       line.Amount,
			CategoryID:   line.CategoryID,
			OriginalData: parent.OriginalData,
			ContentHash:  fingerprint.ForSplit(parent.OriginalData, parent.ID, i),
			ImportedAt:   parent.ImportedAt,
			ParentID:     &parentID,
		}
	}

	if err := e.store.InsertSplitChildren(ctx, children); err != nil {
		return nil, err
	}

	e.logger.WithFields(
		logging.Field{Key: logging.FieldTransaction, Value: parent.ID},
		logging.Field{Key: logging.FieldCount, Value: len(children)},
	).Info("Transaction split")
	return children, nil
}

// Unsplit deletes every child of the transaction in one atomic operation.
// The parent must exist and must actually be split. The parent row is
// untouched and reverts to being a normal transaction.
func (e *Engine) Unsplit(ctx context.Context, transactionID string) error {
	if _, err := e.store.GetTransaction(ctx, transactionID); err != nil {
		return err
	}
	deleted, err := e.store.DeleteSplitChildren(ctx, transactionID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &apperrors.ConflictError{Entity: "transaction", ID: transactionID, Reason: "not split"}
	}

	e.logger.WithFields(
		logging.Field{Key: logging.FieldTransaction, Value: transactionID},
		logging.Field{Key: logging.FieldCount, Value: deleted},
	).Info("Transaction unsplit")
	return nil
}
