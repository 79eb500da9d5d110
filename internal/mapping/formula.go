package mapping

import (
	"fmt"
	"strconv"
	"strings"
)

// FormulaKind selects the formula variant.
type FormulaKind int

const (
	// FormulaLinear is a signed combination of line ids: "=1+2-3".
	FormulaLinear FormulaKind = iota
	// FormulaIDList sums an explicit id list: "=SUM(4;5;6)".
	FormulaIDList
)

// Term is one signed reference in a linear formula.
type Term struct {
	ID   int
	Sign int // +1 or -1
}

// Formula is a parsed calc-line formula. Text keeps the source form so
// templates round-trip through the CSV codec unchanged.
type Formula struct {
	Kind  FormulaKind
	Terms []Term // FormulaLinear
	IDs   []int  // FormulaIDList
	Text  string
}

// Refs returns every line id the formula references.
func (f *Formula) Refs() []int {
	if f.Kind == FormulaIDList {
		return f.IDs
	}
	ids := make([]int, len(f.Terms))
	for i, t := range f.Terms {
		ids[i] = t.ID
	}
	return ids
}

// ParseFormula parses a calc-line formula. Only the two declared forms are
// accepted; anything else is a structural defect in the template.
func ParseFormula(s string) (*Formula, error) {
	text := strings.TrimSpace(s)
	body, ok := strings.CutPrefix(text, "=")
	if !ok {
		return nil, fmt.Errorf("formula %q: must start with '='", s)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("formula %q: empty", s)
	}

	if upper := strings.ToUpper(body); strings.HasPrefix(upper, "SUM(") {
		if !strings.HasSuffix(body, ")") {
			return nil, fmt.Errorf("formula %q: unterminated SUM", s)
		}
		inner := body[len("SUM(") : len(body)-1]
		ids, err := parseIDList(inner)
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", s, err)
		}
		return &Formula{Kind: FormulaIDList, IDs: ids, Text: text}, nil
	}

	terms, err := parseLinear(body)
	if err != nil {
		return nil, fmt.Errorf("formula %q: %w", s, err)
	}
	return &Formula{Kind: FormulaLinear, Terms: terms, Text: text}, nil
}

func parseIDList(inner string) ([]int, error) {
	// Rule files use ';' between ids; ',' is tolerated.
	inner = strings.ReplaceAll(inner, ",", ";")
	var ids []int
	for _, part := range strings.Split(inner, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad id %q in SUM", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("SUM with no ids")
	}
	return ids, nil
}

func parseLinear(body string) ([]Term, error) {
	var terms []Term
	sign := 1
	i := 0
	expectID := true
	for i < len(body) {
		c := body[i]
		switch {
		case c == ' ':
			i++
		case c == '+' || c == '-':
			if expectID && len(terms) > 0 {
				return nil, fmt.Errorf("unexpected operator at position %d", i)
			}
			sign = 1
			if c == '-' {
				sign = -1
			}
			expectID = true
			i++
		case c >= '0' && c <= '9':
			if !expectID && len(terms) > 0 {
				return nil, fmt.Errorf("missing operator at position %d", i)
			}
			j := i
			for j < len(body) && body[j] >= '0' && body[j] <= '9' {
				j++
			}
			id, err := strconv.Atoi(body[i:j])
			if err != nil {
				return nil, err
			}
			terms = append(terms, Term{ID: id, Sign: sign})
			sign = 1
			expectID = false
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q", c)
		}
	}
	if len(terms) == 0 || expectID {
		return nil, fmt.Errorf("incomplete expression")
	}
	return terms, nil
}
