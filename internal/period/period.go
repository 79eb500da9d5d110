// Package period defines reporting periods and the derivations used by the
// CLI: fiscal year, year-to-date, month-to-date, last month, last fiscal
// year. Bounds are inclusive on both ends; all comparisons are on calendar
// days, never clock time.
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/finrep-dev/finrep/internal/model"
)

const dateFormat = "2006-01-02"

// Period is a reporting window with a human-readable label.
type Period struct {
	From  time.Time
	To    time.Time
	Label string
}

// Contains reports whether the date falls inside the period, boundary days
// included.
func (p Period) Contains(d time.Time) bool {
	day := truncate(d)
	return !day.Before(truncate(p.From)) && !day.After(truncate(p.To))
}

// Days returns the inclusive day count of the period.
func (p Period) Days() int {
	return int(truncate(p.To).Sub(truncate(p.From)).Hours()/24) + 1
}

func (p Period) String() string {
	return fmt.Sprintf("%s [%s .. %s]", p.Label, p.From.Format(dateFormat), p.To.Format(dateFormat))
}

func truncate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterEntries returns the entries dated within the period.
func FilterEntries(entries []model.Entry, p Period) []model.Entry {
	var out []model.Entry
	for _, e := range entries {
		if p.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// FiscalYear returns the fiscal year containing ref for a fiscal year
// starting on the first day of startMonth.
func FiscalYear(ref time.Time, startMonth time.Month) Period {
	start := time.Date(ref.Year(), startMonth, 1, 0, 0, 0, 0, time.UTC)
	if truncate(ref).Before(start) {
		start = start.AddDate(-1, 0, 0)
	}
	end := start.AddDate(1, 0, -1)
	return Period{From: start, To: end, Label: fmt.Sprintf("FY%d", start.Year())}
}

// LastFiscalYear returns the fiscal year before the one containing ref.
func LastFiscalYear(ref time.Time, startMonth time.Month) Period {
	fy := FiscalYear(ref, startMonth)
	start := fy.From.AddDate(-1, 0, 0)
	end := fy.From.AddDate(0, 0, -1)
	return Period{From: start, To: end, Label: fmt.Sprintf("FY%d", start.Year())}
}

// YearToDate returns the window from the fiscal year start through ref.
func YearToDate(ref time.Time, startMonth time.Month) Period {
	fy := FiscalYear(ref, startMonth)
	return Period{From: fy.From, To: truncate(ref), Label: "YTD"}
}

// MonthToDate returns the window from the first of ref's month through ref.
func MonthToDate(ref time.Time) Period {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{From: start, To: truncate(ref), Label: ref.Format("2006-01") + " MTD"}
}

// LastMonth returns the full calendar month before ref's month.
func LastMonth(ref time.Time) Period {
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := firstOfMonth.AddDate(0, -1, 0)
	end := firstOfMonth.AddDate(0, 0, -1)
	return Period{From: start, To: end, Label: start.Format("2006-01")}
}

// Parse parses an explicit "from:to" range, both dates in YYYY-MM-DD.
func Parse(s string) (Period, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Period{}, fmt.Errorf("period %q: want from:to", s)
	}
	start, err := time.Parse(dateFormat, strings.TrimSpace(from))
	if err != nil {
		return Period{}, fmt.Errorf("period %q: parsing start: %w", s, err)
	}
	end, err := time.Parse(dateFormat, strings.TrimSpace(to))
	if err != nil {
		return Period{}, fmt.Errorf("period %q: parsing end: %w", s, err)
	}
	if end.Before(start) {
		return Period{}, fmt.Errorf("period %q: end before start", s)
	}
	label := start.Format(dateFormat) + ".." + end.Format(dateFormat)
	return Period{From: start, To: end, Label: label}, nil
}

// Derive resolves a named period (fy, ytd, mtd, last-month, last-fy) or an
// explicit from:to range against a reference date and fiscal-year start.
func Derive(name string, ref time.Time, startMonth time.Month) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "fy":
		return FiscalYear(ref, startMonth), nil
	case "ytd":
		return YearToDate(ref, startMonth), nil
	case "mtd":
		return MonthToDate(ref), nil
	case "last-month":
		return LastMonth(ref), nil
	case "last-fy":
		return LastFiscalYear(ref, startMonth), nil
	default:
		if strings.Contains(name, ":") {
			return Parse(name)
		}
		return Period{}, fmt.Errorf("unknown period %q", name)
	}
}
