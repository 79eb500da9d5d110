// Package engine turns normalized ledger entries into statement amounts,
// projects them into presentation views, and merges canonical measures
// across statements for ratio evaluation.
package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/finrep-dev/finrep/internal/mapping"
	"github.com/finrep-dev/finrep/internal/model"
)

// Statement is the full aggregation result for one template over one entry
// set: every declared line computed, regardless of the view later requested.
type Statement struct {
	Template *mapping.Template
	Amounts  map[int]decimal.Decimal            // line id -> amount
	ByCode   map[int]map[string]decimal.Decimal // account line id -> per-code contributions
	Unmapped []UnmappedCode
}

// UnmappedCode summarizes entries whose account code matched no line. Not an
// error: such entries are excluded from every total and reported only as a
// diagnostic.
type UnmappedCode struct {
	Code  string
	Total decimal.Decimal
	Count int
}

// Aggregate computes every line of the template against the given entries.
// Account lines sum matching entries; calc lines are then evaluated in
// dependency order. Pure function: the template is not mutated and the same
// inputs always produce the same Statement.
func Aggregate(tpl *mapping.Template, entries []model.Entry) *Statement {
	st := &Statement{
		Template: tpl,
		Amounts:  make(map[int]decimal.Decimal, len(tpl.Lines)),
		ByCode:   make(map[int]map[string]decimal.Decimal),
	}
	for _, l := range tpl.Lines {
		st.Amounts[l.ID] = decimal.Zero
	}

	unmapped := make(map[string]*UnmappedCode)
	for _, e := range entries {
		ids := tpl.ResolveCode(e.Code)
		if len(ids) == 0 {
			u, ok := unmapped[e.Code]
			if !ok {
				u = &UnmappedCode{Code: e.Code}
				unmapped[e.Code] = u
			}
			u.Total = u.Total.Add(e.Amount)
			u.Count++
			continue
		}
		for _, id := range ids {
			st.Amounts[id] = st.Amounts[id].Add(e.Amount)
			byCode := st.ByCode[id]
			if byCode == nil {
				byCode = make(map[string]decimal.Decimal)
				st.ByCode[id] = byCode
			}
			byCode[e.Code] = byCode[e.Code].Add(e.Amount)
		}
	}

	for code := range unmapped {
		st.Unmapped = append(st.Unmapped, *unmapped[code])
	}
	sort.Slice(st.Unmapped, func(i, j int) bool { return st.Unmapped[i].Code < st.Unmapped[j].Code })

	// Calc lines, dependencies first. The template guarantees the order is
	// complete and acyclic.
	for _, id := range tpl.CalcOrder() {
		l, _ := tpl.Line(id)
		st.Amounts[id] = evalFormula(l.Formula, st.Amounts)
	}
	return st
}

func evalFormula(f *mapping.Formula, amounts map[int]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	switch f.Kind {
	case mapping.FormulaIDList:
		for _, id := range f.IDs {
			total = total.Add(amounts[id])
		}
	default:
		for _, term := range f.Terms {
			if term.Sign < 0 {
				total = total.Sub(amounts[term.ID])
			} else {
				total = total.Add(amounts[term.ID])
			}
		}
	}
	return total
}

// Total returns the computed amount for a line id.
func (st *Statement) Total(id int) decimal.Decimal {
	return st.Amounts[id]
}
