// Package exporter writes an account's normalized transactions back out
// as CSV. Split parents are excluded so the exported amounts sum to the
// account's true activity: leaves and un-split transactions only.
package exporter

import (
	"context"
	"io"
	"strings"

	"github.com/ruslany/expense-tracker/internal/database"
	"github.com/ruslany/expense-tracker/internal/logging"
	"github.com/ruslany/expense-tracker/internal/models"

	"github.com/gocarina/gocsv"
)

// ExportRow is the flattened CSV shape of one persisted transaction.
type ExportRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Tags        string `csv:"Tags"`
	Split       string `csv:"SplitOf"`
}

// Exporter flattens and writes transactions.
type Exporter struct {
	store  *database.Store
	logger logging.Logger
}

// New creates an Exporter.
func New(store *database.Store, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	return &Exporter{store: store, logger: logger}
}

// Export writes the account's transactions to w as CSV.
func (e *Exporter) Export(ctx context.Context, accountID int64, w io.Writer) (int, error) {
	transactions, err := e.store.ListTransactionsByAccount(ctx, accountID, true)
	if err != nil {
		return 0, err
	}
	categories, err := e.store.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	rows := make([]ExportRow, 0, len(transactions))
	for _, tx := range transactions {
		tags, err := e.store.TagsForTransaction(ctx, tx.ID)
		if err != nil {
			return 0, err
		}
		rows = append(rows, flatten(tx, names, tags))
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return 0, err
	}
	e.logger.WithFields(
		logging.Field{Key: logging.FieldAccountID, Value: accountID},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
	).Info("Exported transactions")
	return len(rows), nil
}

func flatten(tx models.Transaction, categoryNames map[int64]string, tags []string) ExportRow {
	row := ExportRow{
		Date:        tx.Date.Format("2006-01-02"),
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		Tags:        strings.Join(tags, ";"),
	}
	if tx.CategoryID != nil {
		row.Category = categoryNames[*tx.CategoryID]
	}
	if tx.ParentID != nil {
		row.Split = *tx.ParentID
	}
	return row
}
