package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Entry is a normalized ledger posting: a single signed amount against an
// account code. Amount follows the credit-minus-debit convention, so revenue
// postings are positive and expense postings negative.
type Entry struct {
	Date        time.Time
	Code        string // account code, kept as a string to preserve leading zeros
	Description string
	Amount      decimal.Decimal
}

// Key returns the duplicate-detection key for an entry. Two entries with the
// same date, code, amount and description are considered the same posting.
func (e Entry) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s", e.Date.Format("2006-01-02"), e.Code, e.Amount.StringFixed(2), e.Description)
}

// RawEntry is a posting as it appears in a ledger export, with separate
// debit and credit columns.
type RawEntry struct {
	Date        time.Time
	Code        string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// Normalize converts a raw posting into a signed Entry (credit - debit).
func (r RawEntry) Normalize() Entry {
	return Entry{
		Date:        r.Date,
		Code:        r.Code,
		Description: r.Description,
		Amount:      r.Credit.Sub(r.Debit),
	}
}
