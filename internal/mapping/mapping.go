package mapping

import (
	"fmt"
	"strings"
)

// LineType distinguishes account-aggregation lines from formula lines.
type LineType string

const (
	LineAccount LineType = "acc"
	LineCalc    LineType = "calc"
)

// Line is one statement line of a mapping template. Account lines sum the
// ledger entries selected by their include/exclude prefix patterns; calc
// lines combine other lines through a formula.
type Line struct {
	ID           int
	DisplayOrder int
	Name         string
	Type         LineType
	Level        int // 0..3 for declared lines; level 4 exists only in views
	Include      []string
	Exclude      []string
	Formula      *Formula
	Measure      string // canonical-measure name, empty when untagged
	Notes        string
}

// StructuralError describes a mapping defect detected at load time. No
// template with a structural error is ever evaluated.
type StructuralError struct {
	LineID      int
	Field       string
	Description string
}

func (e StructuralError) Error() string {
	return fmt.Sprintf("mapping line %d: %s: %s", e.LineID, e.Field, e.Description)
}

// Template is a validated mapping template. Immutable after Resolve; safe
// for concurrent readers.
type Template struct {
	Lines []Line

	byID      map[int]*Line
	calcOrder []int
}

// Resolve validates a set of mapping lines and returns a Template with the
// calc evaluation order precomputed. All structural rules are enforced here;
// aggregation assumes a resolved template is internally consistent.
func Resolve(lines []Line) (*Template, error) {
	t := &Template{Lines: lines, byID: make(map[int]*Line, len(lines))}
	for i := range t.Lines {
		l := &t.Lines[i]
		if _, dup := t.byID[l.ID]; dup {
			return nil, StructuralError{LineID: l.ID, Field: "id", Description: "duplicate id"}
		}
		t.byID[l.ID] = l
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	order, err := t.sortCalcLines()
	if err != nil {
		return nil, err
	}
	t.calcOrder = order
	return t, nil
}

// Line returns the line with the given id.
func (t *Template) Line(id int) (*Line, bool) {
	l, ok := t.byID[id]
	return l, ok
}

// CalcOrder returns calc line ids in dependency order: every line appears
// after all lines its formula references.
func (t *Template) CalcOrder() []int {
	return t.calcOrder
}

// ResolveCode returns the ids of every account line the given account code
// feeds. A line matches when the code matches at least one include pattern
// and no exclude pattern. A code may land on several lines, or on none.
func (t *Template) ResolveCode(code string) []int {
	var ids []int
	for i := range t.Lines {
		l := &t.Lines[i]
		if l.Type != LineAccount {
			continue
		}
		if matchAny(code, l.Include) && !matchAny(code, l.Exclude) {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// matchAny reports whether code matches at least one prefix pattern. The
// trailing "*" is a declarative convention in the rule files; comparison is
// always on the bare prefix, so "701" and "701*" both match "701001".
func matchAny(code string, patterns []string) bool {
	for _, p := range patterns {
		p = strings.TrimSuffix(p, "*")
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// SplitPatterns converts a semicolon-separated pattern cell into a list.
func SplitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ";") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinPatterns is the inverse of SplitPatterns.
func JoinPatterns(patterns []string) string {
	return strings.Join(patterns, ";")
}
