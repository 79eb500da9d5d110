// Package multiperiod runs the full reporting pipeline, aggregation through
// ratio evaluation, over a set of periods. Each period is computed from its
// own filtered slice of entries and is completely independent of the others.
package multiperiod

import (
	"github.com/shopspring/decimal"

	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/mapping"
	"github.com/finrep-dev/finrep/internal/model"
	"github.com/finrep-dev/finrep/internal/period"
	"github.com/finrep-dev/finrep/internal/ratios"
)

// PeriodDaysMeasure is the implicit measure injected into every period's
// table before derived measures run, so rules can annualize.
const PeriodDaysMeasure = "period_days"

// Runner holds the period-independent inputs of the pipeline.
type Runner struct {
	Primary   *mapping.Template
	Secondary *mapping.Template // nil when no secondary statement is configured
	Rules     *ratios.RuleSet
	Authority map[string]string
	External  map[string]decimal.Decimal
	Names     engine.AccountNamer
}

// Request selects the periods to compute and how to render them.
type Request struct {
	Periods []period.Period
	Level   ratios.Level
	View    engine.View
}

// PeriodResult is one period's computed output. When Err is set the
// statements and views are still populated; measures and ratios are not.
type PeriodResult struct {
	Period        period.Period
	EntryCount    int
	Primary       *engine.Statement
	Secondary     *engine.Statement
	PrimaryView   *engine.ViewTable
	SecondaryView *engine.ViewTable
	Measures      *engine.MeasureTable
	Ratios        []ratios.Result
	Err           error
}

// RunSet is the ordered collection of per-period results.
type RunSet struct {
	Results []PeriodResult
}

// Run computes every requested period against the given entry universe.
// A period that fails measure merging carries its error in its result;
// the remaining periods still compute.
func (r *Runner) Run(entries []model.Entry, req Request) *RunSet {
	set := &RunSet{Results: make([]PeriodResult, 0, len(req.Periods))}
	for _, p := range req.Periods {
		set.Results = append(set.Results, r.runPeriod(entries, p, req))
	}
	return set
}

func (r *Runner) runPeriod(entries []model.Entry, p period.Period, req Request) PeriodResult {
	scoped := period.FilterEntries(entries, p)
	res := PeriodResult{Period: p, EntryCount: len(scoped)}

	res.Primary = engine.Aggregate(r.Primary, scoped)
	res.PrimaryView = engine.Render(res.Primary, req.View, r.Names)
	if r.Secondary != nil {
		res.Secondary = engine.Aggregate(r.Secondary, scoped)
		res.SecondaryView = engine.Render(res.Secondary, req.View, r.Names)
	}

	mt, err := engine.BuildMeasures(res.Primary, res.Secondary, r.Authority, r.External)
	if err != nil {
		res.Err = err
		return res
	}
	mt.Set(PeriodDaysMeasure, decimal.NewFromInt(int64(p.Days())), engine.MeasureMeta{Source: engine.SourceExternal})

	if r.Rules != nil {
		ratios.ApplyDerived(r.Rules, mt)
		res.Ratios = ratios.Compute(r.Rules, req.Level, mt)
	}
	res.Measures = mt
	return res
}

// LongRow is one observation in the long-format projection: a period crossed
// with a measure or ratio.
type LongRow struct {
	Period  string
	Section string // "measure" or "ratio"
	Key     string
	Label   string
	Value   decimal.Decimal
	Valid   bool
	Reason  string
}

// Rows flattens the run into long format, one row per period per measure and
// per ratio, periods in request order.
func (rs *RunSet) Rows() []LongRow {
	var rows []LongRow
	for _, res := range rs.Results {
		if res.Err != nil {
			continue
		}
		for _, name := range res.Measures.Names() {
			v, _ := res.Measures.Get(name)
			rows = append(rows, LongRow{
				Period:  res.Period.Label,
				Section: "measure",
				Key:     name,
				Label:   name,
				Value:   v,
				Valid:   true,
			})
		}
		for _, rr := range res.Ratios {
			rows = append(rows, LongRow{
				Period:  res.Period.Label,
				Section: "ratio",
				Key:     rr.Key,
				Label:   rr.Label,
				Value:   rr.Value,
				Valid:   rr.Valid,
				Reason:  rr.Reason,
			})
		}
	}
	return rows
}

// Failed returns the results that carry a per-period error.
func (rs *RunSet) Failed() []PeriodResult {
	var out []PeriodResult
	for _, res := range rs.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
