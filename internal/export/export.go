// Package export writes computed views, ratios and diagnostics as CSV files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/multiperiod"
	"github.com/finrep-dev/finrep/internal/ratios"
)

// Filename builds a timestamped export name: prefix_20060102_150405.csv.
func Filename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, t.Format("20060102_150405"))
}

// WriteViewCSV writes a rendered view table.
func WriteViewCSV(w io.Writer, vt *engine.ViewTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(engine.Columns[:]); err != nil {
		return fmt.Errorf("writing view header: %w", err)
	}
	for _, row := range vt.Rows {
		rec := []string{
			strconv.Itoa(row.DisplayOrder),
			strconv.Itoa(row.ID),
			strconv.Itoa(row.Level),
			row.Name,
			row.Type,
			row.Amount.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing view row %d: %w", row.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRatiosCSV writes ratio results. An invalid ratio exports the literal
// NaN with its reason, so the gap is visible downstream.
func WriteRatiosCSV(w io.Writer, results []ratios.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "label", "level", "unit", "value", "reason"}); err != nil {
		return fmt.Errorf("writing ratios header: %w", err)
	}
	for _, r := range results {
		value := "NaN"
		if r.Valid {
			value = r.Value.String()
		}
		rec := []string{r.Key, r.Label, string(r.Level), r.Unit, value, r.Reason}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing ratio %s: %w", r.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLongCSV writes a multi-period run in long format, one row per period
// per measure and ratio.
func WriteLongCSV(w io.Writer, rows []multiperiod.LongRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "section", "key", "label", "value", "reason"}); err != nil {
		return fmt.Errorf("writing long header: %w", err)
	}
	for _, row := range rows {
		value := "NaN"
		if row.Valid {
			value = row.Value.String()
		}
		rec := []string{row.Period, row.Section, row.Key, row.Label, value, row.Reason}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing long row %s/%s: %w", row.Period, row.Key, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUnmappedCSV writes the account codes a statement could not place.
func WriteUnmappedCSV(w io.Writer, unmapped []engine.UnmappedCode) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"code", "entries", "total"}); err != nil {
		return fmt.Errorf("writing unmapped header: %w", err)
	}
	for _, u := range unmapped {
		rec := []string{u.Code, strconv.Itoa(u.Count), u.Total.StringFixed(2)}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing unmapped code %s: %w", u.Code, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeFile creates path and runs the given writer against it.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SaveViewCSV writes a view table to a file.
func SaveViewCSV(path string, vt *engine.ViewTable) error {
	return writeFile(path, func(w io.Writer) error { return WriteViewCSV(w, vt) })
}

// SaveRatiosCSV writes ratio results to a file.
func SaveRatiosCSV(path string, results []ratios.Result) error {
	return writeFile(path, func(w io.Writer) error { return WriteRatiosCSV(w, results) })
}

// SaveLongCSV writes a long-format run to a file.
func SaveLongCSV(path string, rows []multiperiod.LongRow) error {
	return writeFile(path, func(w io.Writer) error { return WriteLongCSV(w, rows) })
}
