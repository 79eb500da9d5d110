package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finrep-dev/finrep/internal/model"
)

// ErrNotFound is returned for operations on a nonexistent entry id.
var ErrNotFound = errors.New("entry not found")

// Filter narrows an entry listing. Zero-valued fields do not filter.
type Filter struct {
	From           *time.Time
	To             *time.Time
	Code           string // account-code prefix
	Text           string // substring of description, case-insensitive
	BatchID        string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Entries lists stored entries matching the filter, ordered by date then id.
func (s *Store) Entries(f Filter) ([]model.StoredEntry, error) {
	var where []string
	var args []any

	if !f.IncludeDeleted {
		where = append(where, "deleted = 0")
	}
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, f.From.Format(dateFormat))
	}
	if f.To != nil {
		where = append(where, "date <= ?")
		args = append(args, f.To.Format(dateFormat))
	}
	if f.Code != "" {
		where = append(where, "code LIKE ?")
		args = append(args, f.Code+"%")
	}
	if f.Text != "" {
		where = append(where, "description LIKE ? COLLATE NOCASE")
		args = append(args, "%"+f.Text+"%")
	}
	if f.BatchID != "" {
		where = append(where, "batch_id = ?")
		args = append(args, f.BatchID)
	}

	query := "SELECT id, date, code, description, amount_cents, COALESCE(batch_id, ''), deleted FROM entries"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var out []model.StoredEntry
	for rows.Next() {
		e, err := scanStored(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get returns a stored entry by id, deleted or not.
func (s *Store) Get(id int64) (model.StoredEntry, error) {
	row := s.db.QueryRow(
		"SELECT id, date, code, description, amount_cents, COALESCE(batch_id, ''), deleted FROM entries WHERE id = ?", id)
	e, err := scanStored(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StoredEntry{}, ErrNotFound
	}
	return e, err
}

// Add inserts a single entry outside any import batch and returns its id.
func (s *Store) Add(e model.Entry) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO entries (date, code, description, amount_cents) VALUES (?, ?, ?, ?)",
		e.Date.Format(dateFormat), e.Code, e.Description, toCents(e.Amount))
	if err != nil {
		return 0, fmt.Errorf("adding entry: %w", err)
	}
	return res.LastInsertId()
}

// Update replaces the mutable fields of an entry.
func (s *Store) Update(id int64, e model.Entry) error {
	res, err := s.db.Exec(
		"UPDATE entries SET date = ?, code = ?, description = ?, amount_cents = ? WHERE id = ?",
		e.Date.Format(dateFormat), e.Code, e.Description, toCents(e.Amount), id)
	if err != nil {
		return fmt.Errorf("updating entry %d: %w", id, err)
	}
	return requireRow(res, id)
}

// SoftDelete marks an entry deleted. It disappears from listings and from
// reporting but stays recoverable via Restore.
func (s *Store) SoftDelete(id int64) error {
	res, err := s.db.Exec("UPDATE entries SET deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting entry %d: %w", id, err)
	}
	return requireRow(res, id)
}

// Restore clears the deleted flag.
func (s *Store) Restore(id int64) error {
	res, err := s.db.Exec("UPDATE entries SET deleted = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("restoring entry %d: %w", id, err)
	}
	return requireRow(res, id)
}

// AllForReporting returns every live entry as a normalized model.Entry,
// ordered by date then id. This is the engine's input.
func (s *Store) AllForReporting() ([]model.Entry, error) {
	stored, err := s.Entries(Filter{})
	if err != nil {
		return nil, err
	}
	entries := make([]model.Entry, len(stored))
	for i, se := range stored {
		entries[i] = se.Entry
	}
	return entries, nil
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStored(r rowScanner) (model.StoredEntry, error) {
	var e model.StoredEntry
	var dateStr string
	var cents int64
	var deleted int
	if err := r.Scan(&e.ID, &dateStr, &e.Code, &e.Description, &cents, &e.BatchID, &deleted); err != nil {
		return model.StoredEntry{}, err
	}
	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return model.StoredEntry{}, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
	}
	e.Date = date
	e.Amount = fromCents(cents)
	e.Deleted = deleted != 0
	return e, nil
}
