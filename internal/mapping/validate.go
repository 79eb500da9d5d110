package mapping

import (
	"fmt"
	"sort"
	"strings"
)

// MaxDeclaredLevel is the deepest level a template may declare. Level-4 rows
// are synthesized from account detail in the complete view, never declared.
const MaxDeclaredLevel = 3

func (t *Template) validate() error {
	for i := range t.Lines {
		l := &t.Lines[i]

		if l.Type != LineAccount && l.Type != LineCalc {
			return StructuralError{LineID: l.ID, Field: "type", Description: fmt.Sprintf("unknown type %q", l.Type)}
		}
		if l.Level < 0 || l.Level > MaxDeclaredLevel {
			return StructuralError{LineID: l.ID, Field: "level", Description: fmt.Sprintf("level %d outside 0..%d", l.Level, MaxDeclaredLevel)}
		}

		hasInclude := len(l.Include) > 0
		hasFormula := l.Formula != nil
		switch {
		case hasInclude && hasFormula:
			return StructuralError{LineID: l.ID, Field: "formula", Description: "line has both an include set and a formula"}
		case !hasInclude && !hasFormula:
			return StructuralError{LineID: l.ID, Field: "accounts_to_include", Description: "line has neither an include set nor a formula"}
		case l.Type == LineAccount && hasFormula:
			return StructuralError{LineID: l.ID, Field: "formula", Description: "account line cannot carry a formula"}
		case l.Type == LineCalc && hasInclude:
			return StructuralError{LineID: l.ID, Field: "accounts_to_include", Description: "calc line cannot carry an include set"}
		}
		if len(l.Exclude) > 0 && l.Type != LineAccount {
			return StructuralError{LineID: l.ID, Field: "accounts_to_exclude", Description: "exclude set on a non-account line"}
		}

		if l.Formula != nil {
			for _, ref := range l.Formula.Refs() {
				if ref == l.ID {
					return StructuralError{LineID: l.ID, Field: "formula", Description: "formula references its own line"}
				}
				if _, ok := t.byID[ref]; !ok {
					return StructuralError{LineID: l.ID, Field: "formula", Description: fmt.Sprintf("reference to unknown line %d", ref)}
				}
			}
		}
	}
	return nil
}

// DFS colors for cycle detection.
const (
	colorWhite = iota // unvisited
	colorGray         // on the current path
	colorBlack        // finished
)

// sortCalcLines returns calc line ids ordered so that every formula only
// references already-computed lines. A gray-node hit is a reference cycle,
// reported with the ids on the cycle.
func (t *Template) sortCalcLines() ([]int, error) {
	color := make(map[int]int, len(t.Lines))
	var order []int
	var path []int

	var visit func(id int) error
	visit = func(id int) error {
		switch color[id] {
		case colorBlack:
			return nil
		case colorGray:
			return StructuralError{
				LineID:      id,
				Field:       "formula",
				Description: "reference cycle: " + cycleString(path, id),
			}
		}
		color[id] = colorGray
		path = append(path, id)

		l := t.byID[id]
		if l.Formula != nil {
			for _, ref := range l.Formula.Refs() {
				if err := visit(ref); err != nil {
					return err
				}
			}
		}

		path = path[:len(path)-1]
		color[id] = colorBlack
		if l.Type == LineCalc {
			order = append(order, id)
		}
		return nil
	}

	// Deterministic traversal regardless of map iteration order.
	ids := make([]int, 0, len(t.Lines))
	for _, l := range t.Lines {
		ids = append(ids, l.ID)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if err := visit(id); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// cycleString formats the portion of the DFS path from the first occurrence
// of id back to id, e.g. "3 -> 5 -> 3".
func cycleString(path []int, id int) string {
	start := 0
	for i, p := range path {
		if p == id {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(path)-start+1)
	for _, p := range path[start:] {
		parts = append(parts, fmt.Sprintf("%d", p))
	}
	parts = append(parts, fmt.Sprintf("%d", id))
	return strings.Join(parts, " -> ")
}
