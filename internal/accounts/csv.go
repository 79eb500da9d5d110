package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/finrep-dev/finrep/internal/model"
)

// Accepted header spellings for the two chart columns. Charts exported from
// French accounting packages commonly use "numero"/"libelle".
var (
	codeHeaders = []string{"code", "account", "account_code", "numero"}
	nameHeaders = []string{"name", "label", "libelle", "description"}
)

// ReadChart reads a chart of accounts from CSV. The first row must be a
// header naming a code column and a name column; extra columns are ignored.
// Codes are kept as strings so leading zeros survive.
func ReadChart(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chart CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("chart CSV is empty")
	}

	codeCol, err := findColumn(records[0], codeHeaders)
	if err != nil {
		return nil, err
	}
	nameCol, err := findColumn(records[0], nameHeaders)
	if err != nil {
		return nil, err
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		if codeCol >= len(rec) || nameCol >= len(rec) {
			return nil, fmt.Errorf("row %d: too few fields", i+2)
		}
		code := strings.TrimSpace(rec[codeCol])
		if code == "" {
			return nil, fmt.Errorf("row %d: empty account code", i+2)
		}
		accounts = append(accounts, model.Account{
			Code: code,
			Name: strings.TrimSpace(rec[nameCol]),
		})
	}
	return accounts, nil
}

// WriteChart writes a chart of accounts as CSV with the canonical header.
func WriteChart(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"code", "name"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, acct := range accounts {
		if err := cw.Write([]string{acct.Code, acct.Name}); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// LoadChart reads a chart of accounts from a CSV file.
func LoadChart(path string) ([]model.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart %s: %w", path, err)
	}
	defer f.Close()

	accounts, err := ReadChart(f)
	if err != nil {
		return nil, fmt.Errorf("loading chart %s: %w", path, err)
	}
	return accounts, nil
}

func findColumn(header []string, accepted []string) (int, error) {
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, want := range accepted {
			if cell == want {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("chart CSV header: no column among %s", strings.Join(accepted, ", "))
}
