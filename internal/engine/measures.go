package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Statement roles used in measure metadata and collision arbitration.
const (
	SourcePrimary   = "primary"
	SourceSecondary = "secondary"
	SourceExternal  = "external"
	SourceDerived   = "derived"
)

// MeasureMeta records where a measure value came from.
type MeasureMeta struct {
	Source string
	LineID int // statement line the value came from, 0 otherwise
}

// MeasureTable is the flat canonical-measure table for one period. A name
// absent from the table is absent, not zero: ratio evaluation distinguishes
// the two.
type MeasureTable struct {
	values map[string]decimal.Decimal
	meta   map[string]MeasureMeta
}

// NewMeasureTable returns an empty measure table.
func NewMeasureTable() *MeasureTable {
	return &MeasureTable{
		values: make(map[string]decimal.Decimal),
		meta:   make(map[string]MeasureMeta),
	}
}

// Get returns a measure value and whether it is present.
func (mt *MeasureTable) Get(name string) (decimal.Decimal, bool) {
	v, ok := mt.values[name]
	return v, ok
}

// Meta returns the provenance of a measure.
func (mt *MeasureTable) Meta(name string) (MeasureMeta, bool) {
	m, ok := mt.meta[name]
	return m, ok
}

// Set stores a measure. External values are authoritative: once a name is
// set from the external source it is never overwritten.
func (mt *MeasureTable) Set(name string, v decimal.Decimal, meta MeasureMeta) {
	if existing, ok := mt.meta[name]; ok && existing.Source == SourceExternal {
		return
	}
	mt.values[name] = v
	mt.meta[name] = meta
}

// Names returns all present measure names, sorted.
func (mt *MeasureTable) Names() []string {
	names := make([]string, 0, len(mt.values))
	for name := range mt.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns a snapshot of the table for expression evaluation.
func (mt *MeasureTable) Values() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(mt.values))
	for k, v := range mt.values {
		out[k] = v
	}
	return out
}

// BuildMeasures merges the canonical measures of the primary and optional
// secondary statements with externally supplied scalars.
//
// A measure tagged in both statements is a load-time error unless authority
// names the winning statement role for that measure ("primary" or
// "secondary"). External scalars overlay last and always win; they cover
// quantities the statements cannot produce (balance-sheet totals, headcount).
func BuildMeasures(primary, secondary *Statement, authority map[string]string, external map[string]decimal.Decimal) (*MeasureTable, error) {
	mt := NewMeasureTable()

	for _, l := range primary.Template.Lines {
		if l.Measure == "" {
			continue
		}
		mt.values[l.Measure] = primary.Amounts[l.ID]
		mt.meta[l.Measure] = MeasureMeta{Source: SourcePrimary, LineID: l.ID}
	}

	if secondary != nil {
		for _, l := range secondary.Template.Lines {
			if l.Measure == "" {
				continue
			}
			if prev, ok := mt.meta[l.Measure]; ok && prev.Source == SourcePrimary {
				winner, arbitrated := authority[l.Measure]
				if !arbitrated {
					return nil, fmt.Errorf("measure %q tagged in both statements and no authority configured", l.Measure)
				}
				switch winner {
				case SourcePrimary:
					continue // primary keeps the value
				case SourceSecondary:
				default:
					return nil, fmt.Errorf("authority for measure %q names unknown statement %q (want %s or %s)",
						l.Measure, winner, SourcePrimary, SourceSecondary)
				}
			}
			mt.values[l.Measure] = secondary.Amounts[l.ID]
			mt.meta[l.Measure] = MeasureMeta{Source: SourceSecondary, LineID: l.ID}
		}
	}

	for name, v := range external {
		mt.values[name] = v
		mt.meta[name] = MeasureMeta{Source: SourceExternal}
	}
	return mt, nil
}
