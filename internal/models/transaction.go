// Package models provides the data structures shared across the import
// pipeline, the split engine and the persistence layer.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParsedTransaction is the transient, normalized form of one CSV row.
// It is produced by the parser and consumed within a single import call;
// it is never persisted as-is.
type ParsedTransaction struct {
	// Date is normalized to UTC midnight; time of day is not tracked.
	Date time.Time

	// Description is never empty; blank source fields become "Unknown".
	Description string

	// Amount is signed: negative for expenses, positive for income.
	Amount decimal.Decimal

	// OriginalData retains the raw row as provenance and hashing input.
	OriginalData OriginalData

	// Category carries an explicit category name when the CSV itself has
	// one; empty means auto-detection applies later.
	Category string

	// Tags are tag names from a tag-like CSV column, if any.
	Tags []string
}

// UnknownDescription is the sentinel used when the mapped description
// field is blank.
const UnknownDescription = "Unknown"

// Transaction is a persisted transaction row.
type Transaction struct {
	ID           string          `db:"id" json:"id"`
	AccountID    int64           `db:"account_id" json:"accountId"`
	Date         time.Time       `db:"transaction_date" json:"date"`
	Description  string          `db:"description" json:"description"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	CategoryID   *int64          `db:"category_id" json:"categoryId,omitempty"`
	OriginalData OriginalData    `db:"original_data" json:"originalData,omitempty"`
	ContentHash  string          `db:"content_hash" json:"-"`
	ImportedAt   time.Time       `db:"imported_at" json:"importedAt"`

	// ParentID is non-nil only for split children. Split depth is at
	// most one: a child can never have children of its own.
	ParentID *string `db:"parent_id" json:"parentId,omitempty"`

	Tags []string `db:"-" json:"tags,omitempty"`
}

// IsSplitChild reports whether the transaction was created by a split.
func (t *Transaction) IsSplitChild() bool {
	return t.ParentID != nil
}

// SplitTolerance is the maximum allowed difference between a parent
// amount and the sum of its split children.
var SplitTolerance = decimal.NewFromFloat(0.01)

// OriginalData is the original CSV row as a key to value mapping. It is
// stored as a JSON blob and is immutable after creation.
type OriginalData map[string]string

// Value implements driver.Valuer, serializing the map to JSON for storage.
func (d OriginalData) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal original data: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner, deserializing the stored JSON blob.
func (d *OriginalData) Scan(src interface{}) error {
	if src == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into OriginalData", src)
	}
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Account is an owning account for transactions.
type Account struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Category groups transactions; its keywords drive auto-detection.
// Keyword uniqueness is case-insensitive across all categories.
type Category struct {
	ID       int64    `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Keywords []string `db:"-" json:"keywords,omitempty"`
}

// Tag is a free-form label attached to transactions (many-to-many).
type Tag struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ImportHistory is the append-only audit record of one completed import.
type ImportHistory struct {
	ID           string    `db:"id" json:"id"`
	FileName     string    `db:"file_name" json:"fileName"`
	Institution  string    `db:"institution" json:"institution"`
	AccountID    int64     `db:"account_id" json:"accountId"`
	RowsImported int       `db:"rows_imported" json:"rowsImported"`
	ImportedAt   time.Time `db:"imported_at" json:"importedAt"`
}
