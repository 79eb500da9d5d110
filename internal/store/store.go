// Package store persists ledger entries in SQLite. Amounts cross the
// storage boundary as integer cents; everything above it works in decimals.
package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// Store wraps the entries database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) an entries database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if _, err := db.Exec(`
		PRAGMA foreign_keys = ON;
		PRAGMA journal_mode = WAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configuring database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS import_batches (
			id         TEXT PRIMARY KEY,
			source     TEXT NOT NULL,
			created_at TEXT NOT NULL,
			count      INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			date         TEXT NOT NULL,
			code         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			amount_cents INTEGER NOT NULL,
			batch_id     TEXT REFERENCES import_batches(id),
			deleted      INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS duplicate_entries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			candidate_of INTEGER NOT NULL REFERENCES entries(id),
			date         TEXT NOT NULL,
			code         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			amount_cents INTEGER NOT NULL,
			status       TEXT NOT NULL DEFAULT 'pending'
		);

		CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
		CREATE INDEX IF NOT EXISTS idx_entries_code ON entries(code);
		CREATE INDEX IF NOT EXISTS idx_duplicate_entries_status ON duplicate_entries(status);
	`)
	return err
}

const dateFormat = "2006-01-02"

// toCents converts a decimal amount to integer cents for storage. Amounts
// with more than two decimal places are rounded half away from zero.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
