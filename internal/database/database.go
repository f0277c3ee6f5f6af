// Package database implements the persistence layer on SQLite. It owns
// the schema, the duplicate-skip bulk insert used by imports, and the
// atomic group operations required by the split engine.
package database

import (
	"context"
	"fmt"

	"github.com/ruslany/expense-tracker/internal/logging"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the database handle and implements all persistence
// operations used by the import and split paths.
type Store struct {
	db     *sqlx.DB
	logger logging.Logger
}

// Open connects to the SQLite database at path (":memory:" is accepted
// for tests), enables foreign keys, and creates missing tables.
func Open(path string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = &logging.MockLogger{}
	}
	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// SQLite allows a single writer; a second connection would see
	// "database is locked" under concurrent request load.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	tableCreators := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,

		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS category_keywords (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			keyword TEXT UNIQUE COLLATE NOCASE NOT NULL,
			category_id INTEGER NOT NULL,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		);`,

		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		);`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			account_id INTEGER NOT NULL,
			category_id INTEGER,
			parent_id TEXT,
			transaction_date DATE NOT NULL,
			description TEXT NOT NULL,
			amount TEXT NOT NULL,
			original_data TEXT,
			content_hash TEXT NOT NULL,
			imported_at TIMESTAMP NOT NULL,
			FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL,
			FOREIGN KEY (parent_id) REFERENCES transactions(id),
			UNIQUE (account_id, content_hash)
		);`,

		`CREATE TABLE IF NOT EXISTS transaction_tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			transaction_id TEXT NOT NULL,
			tag_id INTEGER NOT NULL,
			FOREIGN KEY (transaction_id) REFERENCES transactions(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE,
			UNIQUE (transaction_id, tag_id)
		);`,

		`CREATE TABLE IF NOT EXISTS import_history (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			institution TEXT NOT NULL,
			account_id INTEGER NOT NULL,
			rows_imported INTEGER NOT NULL,
			imported_at TIMESTAMP NOT NULL,
			FOREIGN KEY (account_id) REFERENCES accounts(id) ON DELETE CASCADE
		);`,

		`CREATE TABLE IF NOT EXISTS csv_mappings (
			institution TEXT PRIMARY KEY,
			mapping TEXT NOT NULL
		);`,
	}

	for _, stmt := range tableCreators {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
