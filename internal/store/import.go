package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finrep-dev/finrep/internal/model"
)

// ImportResult summarizes one ledger file import.
type ImportResult struct {
	BatchID    string
	Imported   int
	Duplicates int
}

// Import stores entries under a new batch. An entry identical to a live
// stored row (same date, code, amount and description) is not inserted;
// it is diverted to the duplicate queue as pending and counted in
// Duplicates. The whole import is one transaction.
func (s *Store) Import(source string, entries []model.Entry) (ImportResult, error) {
	batchID := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return ImportResult{}, fmt.Errorf("starting import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO import_batches (id, source, created_at, count) VALUES (?, ?, ?, 0)",
		batchID, source, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return ImportResult{}, fmt.Errorf("creating batch: %w", err)
	}

	result := ImportResult{BatchID: batchID}
	for _, e := range entries {
		var existingID int64
		err := tx.QueryRow(
			"SELECT id FROM entries WHERE deleted = 0 AND date = ? AND code = ? AND amount_cents = ? AND description = ? LIMIT 1",
			e.Date.Format(dateFormat), e.Code, toCents(e.Amount), e.Description).Scan(&existingID)
		switch {
		case err == nil:
			if _, err := tx.Exec(
				"INSERT INTO duplicate_entries (candidate_of, date, code, description, amount_cents, status) VALUES (?, ?, ?, ?, ?, ?)",
				existingID, e.Date.Format(dateFormat), e.Code, e.Description, toCents(e.Amount), string(model.DuplicatePending)); err != nil {
				return ImportResult{}, fmt.Errorf("queuing duplicate: %w", err)
			}
			result.Duplicates++
		case errors.Is(err, sql.ErrNoRows):
			if _, err := tx.Exec(
				"INSERT INTO entries (date, code, description, amount_cents, batch_id) VALUES (?, ?, ?, ?, ?)",
				e.Date.Format(dateFormat), e.Code, e.Description, toCents(e.Amount), batchID); err != nil {
				return ImportResult{}, fmt.Errorf("inserting entry: %w", err)
			}
			result.Imported++
		default:
			return ImportResult{}, fmt.Errorf("checking duplicates: %w", err)
		}
	}

	if _, err := tx.Exec("UPDATE import_batches SET count = ? WHERE id = ?", result.Imported, batchID); err != nil {
		return ImportResult{}, fmt.Errorf("finalizing batch: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("committing import: %w", err)
	}
	return result, nil
}

// Batches lists import batches, newest first.
func (s *Store) Batches() ([]model.ImportBatch, error) {
	rows, err := s.db.Query("SELECT id, source, created_at, count FROM import_batches ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var out []model.ImportBatch
	for rows.Next() {
		var b model.ImportBatch
		var created string
		if err := rows.Scan(&b.ID, &b.Source, &created, &b.Count); err != nil {
			return nil, err
		}
		b.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("parsing batch timestamp %q: %w", created, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Duplicates lists queued duplicates with the given status; an empty status
// lists all of them.
func (s *Store) Duplicates(status model.DuplicateStatus) ([]model.DuplicateEntry, error) {
	query := "SELECT id, candidate_of, date, code, description, amount_cents, status FROM duplicate_entries"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing duplicates: %w", err)
	}
	defer rows.Close()

	var out []model.DuplicateEntry
	for rows.Next() {
		var d model.DuplicateEntry
		var dateStr, statusStr string
		var cents int64
		if err := rows.Scan(&d.ID, &d.CandidateOf, &dateStr, &d.Code, &d.Description, &cents, &statusStr); err != nil {
			return nil, err
		}
		d.Date, err = time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing duplicate date %q: %w", dateStr, err)
		}
		d.Amount = fromCents(cents)
		d.Status = model.DuplicateStatus(statusStr)
		out = append(out, d)
	}
	return out, rows.Err()
}

// ResolveDuplicate settles a pending duplicate. Keeping inserts the queued
// posting as a live entry and marks the duplicate kept; discarding only
// marks it discarded. Resolving a non-pending duplicate is an error.
func (s *Store) ResolveDuplicate(id int64, keep bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("resolving duplicate %d: %w", id, err)
	}
	defer tx.Rollback()

	var dateStr, code, description, status string
	var cents int64
	err = tx.QueryRow(
		"SELECT date, code, description, amount_cents, status FROM duplicate_entries WHERE id = ?", id).
		Scan(&dateStr, &code, &description, &cents, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("duplicate %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolving duplicate %d: %w", id, err)
	}
	if status != string(model.DuplicatePending) {
		return fmt.Errorf("duplicate %d already resolved (%s)", id, status)
	}

	newStatus := model.DuplicateDiscarded
	if keep {
		if _, err := tx.Exec(
			"INSERT INTO entries (date, code, description, amount_cents) VALUES (?, ?, ?, ?)",
			dateStr, code, description, cents); err != nil {
			return fmt.Errorf("keeping duplicate %d: %w", id, err)
		}
		newStatus = model.DuplicateKept
	}
	if _, err := tx.Exec("UPDATE duplicate_entries SET status = ? WHERE id = ?", string(newStatus), id); err != nil {
		return fmt.Errorf("marking duplicate %d: %w", id, err)
	}
	return tx.Commit()
}
