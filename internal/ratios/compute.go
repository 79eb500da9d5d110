package ratios

import (
	"github.com/shopspring/decimal"

	"github.com/finrep-dev/finrep/internal/engine"
)

// Result is one evaluated ratio. An invalid result is a reported outcome,
// not an error: Reason says which measure was missing or that a denominator
// was zero, and Value is meaningless when Valid is false.
type Result struct {
	Key    string
	Label  string
	Unit   string
	Notes  string
	Level  Level
	Value  decimal.Decimal
	Valid  bool
	Reason string
}

// ApplyDerived evaluates the rule set's derived measures against the table,
// in declaration order, storing each success so later formulas can build on
// it. A formula that cannot be evaluated is skipped and its measure stays
// absent; external values are never overwritten.
func ApplyDerived(rs *RuleSet, mt *engine.MeasureTable) {
	for _, m := range rs.Measures {
		v, err := m.Expr.Eval(mt)
		if err != nil {
			continue
		}
		mt.Set(m.Key, v, engine.MeasureMeta{Source: engine.SourceDerived})
	}
}

// Compute evaluates every rule included at the requested level against the
// measure table, grouped by level with declaration order inside each group.
// A failing rule yields an invalid Result and never aborts the batch.
func Compute(rs *RuleSet, l Level, mt *engine.MeasureTable) []Result {
	rules := rs.AtLevel(l)
	results := make([]Result, 0, len(rules))
	for _, r := range rules {
		res := Result{
			Key:   r.Key,
			Label: r.Label,
			Unit:  r.Unit,
			Notes: r.Notes,
			Level: r.Level,
		}
		v, err := r.Expr.Eval(mt)
		if err != nil {
			res.Reason = err.Error()
		} else {
			res.Value = v
			res.Valid = true
		}
		results = append(results, res)
	}
	return results
}
