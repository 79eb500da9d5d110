package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finrep-dev/finrep/internal/mapping"
)

// View selects how much statement detail to emit.
type View string

const (
	ViewSimplified View = "simplified" // levels 0-1
	ViewRegular    View = "regular"    // levels 0-2
	ViewDetailed   View = "detailed"   // all declared levels
	ViewComplete   View = "complete"   // detailed plus per-account level-4 rows
)

// ParseView validates a view name from configuration or a CLI flag.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewSimplified, ViewRegular, ViewDetailed, ViewComplete:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q (want simplified, regular, detailed or complete)", s)
	}
}

func (v View) maxLevel() int {
	switch v {
	case ViewSimplified:
		return 1
	case ViewRegular:
		return 2
	default:
		return mapping.MaxDeclaredLevel
	}
}

// ViewRow is one rendered statement line.
type ViewRow struct {
	DisplayOrder int
	ID           int
	Level        int
	Name         string
	Type         string
	Amount       decimal.Decimal
}

// ViewTable is an ordered view projection, ready for rendering or export.
type ViewTable struct {
	Rows []ViewRow
}

// Columns is the fixed column order for view exports.
var Columns = [6]string{"display_order", "id", "level", "name", "type", "amount"}

// AccountNamer resolves an account code to a human label. Satisfied by
// accounts.Service; views fall back to the bare code when no label is known.
type AccountNamer interface {
	Label(code string) string
}

// Render projects a computed statement into the requested view. Rows follow
// template display order; the complete view inserts one level-4 child per
// contributing account code directly under its level-3 account line, sorted
// by code. Display order is renumbered 10, 20, 30, ... after assembly.
func Render(st *Statement, v View, names AccountNamer) *ViewTable {
	lines := make([]mapping.Line, len(st.Template.Lines))
	copy(lines, st.Template.Lines)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].DisplayOrder < lines[j].DisplayOrder })

	maxLevel := v.maxLevel()
	var rows []ViewRow
	for _, l := range lines {
		if l.Level > maxLevel {
			continue
		}
		rows = append(rows, ViewRow{
			ID:     l.ID,
			Level:  l.Level,
			Name:   l.Name,
			Type:   string(l.Type),
			Amount: st.Amounts[l.ID],
		})
		if v == ViewComplete && l.Type == mapping.LineAccount && l.Level == mapping.MaxDeclaredLevel {
			rows = append(rows, accountChildren(st, l, names)...)
		}
	}

	for i := range rows {
		rows[i].DisplayOrder = (i + 1) * 10
	}
	return &ViewTable{Rows: rows}
}

// accountChildren synthesizes level-4 rows for the distinct account codes
// that contributed to a level-3 account line. Zero-total codes are skipped.
func accountChildren(st *Statement, parent mapping.Line, names AccountNamer) []ViewRow {
	byCode := st.ByCode[parent.ID]
	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		if !byCode[code].IsZero() {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	rows := make([]ViewRow, 0, len(codes))
	for idx, code := range codes {
		name := code
		if names != nil {
			if label := names.Label(code); label != "" {
				name = code + " " + label
			}
		}
		rows = append(rows, ViewRow{
			ID:     parent.ID*1000 + idx + 1,
			Level:  parent.Level + 1,
			Name:   name,
			Type:   string(mapping.LineAccount),
			Amount: byCode[code],
		})
	}
	return rows
}
