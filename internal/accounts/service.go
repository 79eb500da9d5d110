package accounts

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/finrep-dev/finrep/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
	codes    []string // sorted, for deterministic prefix scans
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byCode := make(map[string]model.Account, len(accounts))
	codes := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if _, seen := byCode[a.Code]; !seen {
			codes = append(codes, a.Code)
		}
		byCode[a.Code] = a
	}
	sort.Strings(codes)
	return &Service{accounts: accounts, byCode: byCode, codes: codes}
}

// Load reads a chart CSV file and returns a Service.
func Load(path string) (*Service, error) {
	accts, err := LoadChart(path)
	if err != nil {
		return nil, err
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by exact code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Label returns the display name for an account code. When the exact code is
// not in the chart, the closest ancestor wins: the longest chart code that
// is a prefix of the requested one. Empty when no ancestor exists.
func (s *Service) Label(code string) string {
	if a, ok := s.byCode[code]; ok {
		return a.Name
	}
	best := ""
	for _, c := range s.codes {
		if strings.HasPrefix(code, c) && len(c) > len(best) {
			best = c
		}
	}
	if best == "" {
		return ""
	}
	return s.byCode[best].Name
}

// Known reports whether a code has at least an ancestor in the chart.
func (s *Service) Known(code string) bool {
	if _, ok := s.byCode[code]; ok {
		return true
	}
	for _, c := range s.codes {
		if strings.HasPrefix(code, c) {
			return true
		}
	}
	return false
}

// Unknown returns the distinct entry codes with no chart ancestor, sorted.
func (s *Service) Unknown(entries []model.Entry) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		if seen[e.Code] {
			continue
		}
		seen[e.Code] = true
		if !s.Known(e.Code) {
			out = append(out, e.Code)
		}
	}
	sort.Strings(out)
	return out
}

// Save writes the chart to a CSV file.
func (s *Service) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := WriteChart(f, s.accounts); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
