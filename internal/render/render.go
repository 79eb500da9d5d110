// Package render formats computed results as aligned text tables for the CLI.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/model"
	"github.com/finrep-dev/finrep/internal/multiperiod"
	"github.com/finrep-dev/finrep/internal/ratios"
)

const dateFormat = "2006-01-02"

// FormatAmount renders a decimal amount with the currency's symbol and
// grouping rules. An empty or unregistered currency code falls back to the
// plain two-decimal form.
func FormatAmount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// View writes a rendered statement view, amounts in the given currency.
func View(w io.Writer, title string, vt *engine.ViewTable, currency string) error {
	fmt.Fprintln(w, title)
	tw := newTable(w)
	fmt.Fprintln(tw, "ORDER\tID\tLVL\tNAME\tAMOUNT")
	for _, row := range vt.Rows {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s%s\t%s\n",
			row.DisplayOrder, row.ID, row.Level,
			indent(row.Level), row.Name,
			FormatAmount(row.Amount, currency))
	}
	return tw.Flush()
}

func indent(level int) string {
	const pad = "  "
	s := ""
	for i := 0; i < level; i++ {
		s += pad
	}
	return s
}

// Ratios writes ratio results. Invalid ratios show the literal NaN and the
// reason instead of a value.
func Ratios(w io.Writer, results []ratios.Result) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "RATIO\tLEVEL\tUNIT\tVALUE\tNOTE")
	for _, r := range results {
		value, note := "NaN", r.Reason
		if r.Valid {
			value, note = r.Value.Round(4).String(), r.Notes
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Label, r.Level, r.Unit, value, note)
	}
	return tw.Flush()
}

// Measures writes the canonical-measure table with provenance.
func Measures(w io.Writer, mt *engine.MeasureTable, currency string) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "MEASURE\tSOURCE\tVALUE")
	for _, name := range mt.Names() {
		v, _ := mt.Get(name)
		meta, _ := mt.Meta(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, meta.Source, FormatAmount(v, currency))
	}
	return tw.Flush()
}

// Entries writes stored ledger entries. Soft-deleted rows are flagged.
func Entries(w io.Writer, entries []model.StoredEntry, currency string) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tCODE\tDESCRIPTION\tAMOUNT\t")
	for _, e := range entries {
		flag := ""
		if e.Deleted {
			flag = "deleted"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format(dateFormat), e.Code, e.Description,
			FormatAmount(e.Amount, currency), flag)
	}
	return tw.Flush()
}

// Duplicates writes the pending-duplicate queue.
func Duplicates(w io.Writer, dups []model.DuplicateEntry, currency string) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tOF\tDATE\tCODE\tDESCRIPTION\tAMOUNT\tSTATUS")
	for _, d := range dups {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.CandidateOf, d.Date.Format(dateFormat), d.Code, d.Description,
			FormatAmount(d.Amount, currency), d.Status)
	}
	return tw.Flush()
}

// Unmapped writes the account codes a statement could not place.
func Unmapped(w io.Writer, unmapped []engine.UnmappedCode, currency string) error {
	if len(unmapped) == 0 {
		return nil
	}
	fmt.Fprintln(w, "Unmapped account codes:")
	tw := newTable(w)
	fmt.Fprintln(tw, "CODE\tENTRIES\tTOTAL")
	for _, u := range unmapped {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", u.Code, u.Count, FormatAmount(u.Total, currency))
	}
	return tw.Flush()
}

// LongRows writes a multi-period run in long format.
func LongRows(w io.Writer, rows []multiperiod.LongRow) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PERIOD\tSECTION\tNAME\tVALUE")
	for _, row := range rows {
		value := "NaN"
		if row.Valid {
			value = row.Value.Round(4).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Period, row.Section, row.Label, value)
	}
	return tw.Flush()
}
