package model

import "time"

// StoredEntry is an Entry as persisted in the entry store.
type StoredEntry struct {
	ID      int64
	Entry
	BatchID string
	Deleted bool
}

// ImportBatch records one ledger file import.
type ImportBatch struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Count     int
}

// DuplicateStatus is the review state of a potential duplicate.
type DuplicateStatus string

const (
	DuplicatePending   DuplicateStatus = "pending"
	DuplicateKept      DuplicateStatus = "kept"
	DuplicateDiscarded DuplicateStatus = "discarded"
)

// DuplicateEntry is a posting diverted at import time because an identical
// live entry already existed. It stays out of all reporting until resolved.
type DuplicateEntry struct {
	ID          int64
	CandidateOf int64 // id of the live entry it collides with
	Entry
	Status DuplicateStatus
}
