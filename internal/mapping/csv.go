package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header is the CSV header for mapping template files.
const Header = "display_order,id,name,type,level,accounts_to_include,accounts_to_exclude,formula,canonical_measure,notes"

const (
	numFields  = 10
	colOrder   = 0
	colID      = 1
	colName    = 2
	colType    = 3
	colLevel   = 4
	colInclude = 5
	colExclude = 6
	colFormula = 7
	colMeasure = 8
	colNotes   = 9
)

// ReadTemplate reads and resolves a mapping template from CSV.
func ReadTemplate(r io.Reader) (*Template, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading mapping CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("mapping CSV is empty")
	}

	// Skip header row.
	var lines []Line
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return Resolve(lines)
}

// LoadTemplate reads and resolves a mapping template from a CSV file.
func LoadTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping %s: %w", path, err)
	}
	defer f.Close()

	tpl, err := ReadTemplate(f)
	if err != nil {
		return nil, fmt.Errorf("loading mapping %s: %w", path, err)
	}
	return tpl, nil
}

// WriteTemplate writes template lines to a mapping CSV (including header).
func WriteTemplate(w io.Writer, t *Template) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i := range t.Lines {
		if err := cw.Write(MarshalLine(t.Lines[i])); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalLine converts a Line to a CSV row ([]string).
func MarshalLine(l Line) []string {
	row := make([]string, numFields)
	row[colOrder] = strconv.Itoa(l.DisplayOrder)
	row[colID] = strconv.Itoa(l.ID)
	row[colName] = l.Name
	row[colType] = string(l.Type)
	row[colLevel] = strconv.Itoa(l.Level)
	row[colInclude] = JoinPatterns(l.Include)
	row[colExclude] = JoinPatterns(l.Exclude)
	if l.Formula != nil {
		row[colFormula] = l.Formula.Text
	}
	row[colMeasure] = l.Measure
	row[colNotes] = l.Notes
	return row
}

// UnmarshalLine converts a CSV row to a Line.
func UnmarshalLine(record []string) (Line, error) {
	if len(record) != numFields {
		return Line{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	order, err := strconv.Atoi(strings.TrimSpace(record[colOrder]))
	if err != nil {
		return Line{}, fmt.Errorf("parsing display_order %q: %w", record[colOrder], err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(record[colID]))
	if err != nil {
		return Line{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}
	level, err := strconv.Atoi(strings.TrimSpace(record[colLevel]))
	if err != nil {
		return Line{}, fmt.Errorf("parsing level %q: %w", record[colLevel], err)
	}

	var formula *Formula
	if raw := strings.TrimSpace(record[colFormula]); raw != "" {
		formula, err = ParseFormula(raw)
		if err != nil {
			return Line{}, StructuralError{LineID: id, Field: "formula", Description: err.Error()}
		}
	}

	return Line{
		ID:           id,
		DisplayOrder: order,
		Name:         strings.TrimSpace(record[colName]),
		Type:         normalizeType(record[colType]),
		Level:        level,
		Include:      SplitPatterns(record[colInclude]),
		Exclude:      SplitPatterns(record[colExclude]),
		Formula:      formula,
		Measure:      strings.TrimSpace(record[colMeasure]),
		Notes:        strings.TrimSpace(record[colNotes]),
	}, nil
}

// normalizeType maps the accepted spellings to a LineType. "account" is a
// tolerated alias for "acc"; unknown values pass through and fail validation.
func normalizeType(s string) LineType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "acc", "account":
		return LineAccount
	case "calc":
		return LineCalc
	default:
		return LineType(strings.TrimSpace(s))
	}
}
