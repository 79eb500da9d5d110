package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finrep-dev/finrep/internal/model"
)

// Accepted date formats in ledger exports: ISO and French day-first.
var dateFormats = []string{"2006-01-02", "02/01/2006"}

// DebitCreditParser parses "date,code,description,debit,credit" exports,
// the classic journal layout of French accounting packages.
type DebitCreditParser struct{}

const (
	dcNumFields = 5
	dcColDate   = 0
	dcColCode   = 1
	dcColDesc   = 2
	dcColDebit  = 3
	dcColCredit = 4
)

// Format returns the parser name.
func (p *DebitCreditParser) Format() string { return "debit-credit" }

func (p *DebitCreditParser) matchHeader(header []string) bool {
	return len(header) == dcNumFields &&
		headerIs(header[dcColDebit], "debit") &&
		headerIs(header[dcColCredit], "credit")
}

// Parse reads a debit/credit CSV and returns raw postings.
func (p *DebitCreditParser) Parse(r io.Reader) ([]model.RawEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = dcNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading debit-credit CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.RawEntry
	for i, rec := range records[1:] {
		entry, err := parseDebitCreditRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseDebitCreditRow(rec []string) (model.RawEntry, error) {
	date, err := parseDate(rec[dcColDate])
	if err != nil {
		return model.RawEntry{}, err
	}
	debit, err := parseAmount(rec[dcColDebit])
	if err != nil {
		return model.RawEntry{}, fmt.Errorf("parsing debit %q: %w", rec[dcColDebit], err)
	}
	credit, err := parseAmount(rec[dcColCredit])
	if err != nil {
		return model.RawEntry{}, fmt.Errorf("parsing credit %q: %w", rec[dcColCredit], err)
	}
	return model.RawEntry{
		Date:        date,
		Code:        strings.TrimSpace(rec[dcColCode]),
		Description: strings.TrimSpace(rec[dcColDesc]),
		Debit:       debit,
		Credit:      credit,
	}, nil
}

// SignedParser parses "date,code,description,amount" exports where amount is
// already signed (credit positive).
type SignedParser struct{}

const (
	signedNumFields = 4
	signedColDate   = 0
	signedColCode   = 1
	signedColDesc   = 2
	signedColAmount = 3
)

// Format returns the parser name.
func (p *SignedParser) Format() string { return "signed" }

func (p *SignedParser) matchHeader(header []string) bool {
	return len(header) == signedNumFields && headerIs(header[signedColAmount], "amount")
}

// Parse reads a signed-amount CSV and returns raw postings.
func (p *SignedParser) Parse(r io.Reader) ([]model.RawEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = signedNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading signed CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []model.RawEntry
	for i, rec := range records[1:] {
		date, err := parseDate(rec[signedColDate])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		amount, err := parseAmount(rec[signedColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[signedColAmount], err)
		}
		entry := model.RawEntry{
			Date:        date,
			Code:        strings.TrimSpace(rec[signedColCode]),
			Description: strings.TrimSpace(rec[signedColDesc]),
		}
		// A signed amount is credit-minus-debit already.
		if amount.IsNegative() {
			entry.Debit = amount.Neg()
		} else {
			entry.Credit = amount
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func headerIs(cell, want string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), want)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: want YYYY-MM-DD or DD/MM/YYYY", s)
}

// parseAmount parses a cell that may be empty (zero) and may use the French
// decimal comma with space or non-breaking-space thousands separators.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}
