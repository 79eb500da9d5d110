package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrep-dev/finrep/internal/mapping"
	"github.com/finrep-dev/finrep/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func entry(code, amount string) model.Entry {
	return model.Entry{Date: date(2025, 3, 15), Code: code, Amount: dec(amount)}
}

func mustTemplate(t *testing.T, lines []mapping.Line) *mapping.Template {
	t.Helper()
	tpl, err := mapping.Resolve(lines)
	require.NoError(t, err)
	return tpl
}

func mustFormula(src string) *mapping.Formula {
	f, err := mapping.ParseFormula(src)
	if err != nil {
		panic(err)
	}
	return f
}

// incomeLines is the two-line statement with a net total used across tests:
// expenses (class 6), revenue (class 7), net = revenue + expenses.
func incomeLines() []mapping.Line {
	return []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "Expenses", Type: mapping.LineAccount, Level: 3, Include: []string{"622*"}},
		{ID: 2, DisplayOrder: 20, Name: "Revenue", Type: mapping.LineAccount, Level: 3, Include: []string{"706*"}, Measure: "revenue"},
		{ID: 3, DisplayOrder: 30, Name: "Net", Type: mapping.LineCalc, Level: 0, Formula: mustFormula("=2+1"), Measure: "net_income"},
	}
}

func TestAggregate_ConcreteScenario(t *testing.T) {
	tpl := mustTemplate(t, incomeLines())
	entries := []model.Entry{
		model.RawEntry{Date: date(2025, 3, 1), Code: "622000", Debit: dec("1000")}.Normalize(),
		model.RawEntry{Date: date(2025, 3, 2), Code: "706000", Credit: dec("2500")}.Normalize(),
	}

	st := Aggregate(tpl, entries)
	assert.True(t, st.Total(1).Equal(dec("-1000")), "expenses: %s", st.Total(1))
	assert.True(t, st.Total(2).Equal(dec("2500")), "revenue: %s", st.Total(2))
	assert.True(t, st.Total(3).Equal(dec("1500")), "net: %s", st.Total(3))
}

func TestAggregate_Idempotent(t *testing.T) {
	tpl := mustTemplate(t, incomeLines())
	entries := []model.Entry{
		entry("622000", "-533.25"),
		entry("706000", "844.65"),
		entry("706100", "120.10"),
	}

	first := Aggregate(tpl, entries)
	second := Aggregate(tpl, entries)
	for id := range first.Amounts {
		assert.True(t, first.Amounts[id].Equal(second.Amounts[id]), "line %d", id)
	}
}

func TestAggregate_DecimalExact(t *testing.T) {
	// Many 0.10 postings must sum exactly, with no binary float drift.
	tpl := mustTemplate(t, []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "Revenue", Type: mapping.LineAccount, Level: 3, Include: []string{"70*"}},
	})
	entries := make([]model.Entry, 1000)
	for i := range entries {
		entries[i] = entry("706000", "0.10")
	}
	st := Aggregate(tpl, entries)
	assert.True(t, st.Total(1).Equal(dec("100.00")), "got %s", st.Total(1))
}

func TestAggregate_EntryFeedsMultipleLines(t *testing.T) {
	tpl := mustTemplate(t, []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "All revenue", Type: mapping.LineAccount, Level: 2, Include: []string{"7*"}},
		{ID: 2, DisplayOrder: 20, Name: "Sales of goods", Type: mapping.LineAccount, Level: 3, Include: []string{"707"}},
	})
	st := Aggregate(tpl, []model.Entry{entry("707000", "300")})
	assert.True(t, st.Total(1).Equal(dec("300")))
	assert.True(t, st.Total(2).Equal(dec("300")))
}

func TestAggregate_UnmappedDiagnostics(t *testing.T) {
	tpl := mustTemplate(t, incomeLines())
	st := Aggregate(tpl, []model.Entry{
		entry("801000", "10"),
		entry("801000", "5"),
		entry("999999", "-3"),
		entry("706000", "100"),
	})

	require.Len(t, st.Unmapped, 2)
	assert.Equal(t, "801000", st.Unmapped[0].Code)
	assert.True(t, st.Unmapped[0].Total.Equal(dec("15")))
	assert.Equal(t, 2, st.Unmapped[0].Count)
	assert.Equal(t, "999999", st.Unmapped[1].Code)

	// Unmapped entries stay out of every total.
	assert.True(t, st.Total(2).Equal(dec("100")))
	assert.True(t, st.Total(3).Equal(dec("100")))
}

func TestAggregate_SumFormula(t *testing.T) {
	tpl := mustTemplate(t, []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "A", Type: mapping.LineAccount, Level: 3, Include: []string{"701"}},
		{ID: 2, DisplayOrder: 20, Name: "B", Type: mapping.LineAccount, Level: 3, Include: []string{"706"}},
		{ID: 3, DisplayOrder: 30, Name: "C", Type: mapping.LineAccount, Level: 3, Include: []string{"707"}},
		{ID: 4, DisplayOrder: 40, Name: "Total", Type: mapping.LineCalc, Level: 1, Formula: mustFormula("=SUM(1;2;3)")},
	})
	st := Aggregate(tpl, []model.Entry{
		entry("701000", "10"),
		entry("706000", "20"),
		entry("707000", "30"),
	})
	assert.True(t, st.Total(4).Equal(dec("60")))
}

func TestAggregate_ChainedCalc(t *testing.T) {
	// Calc referencing calc: declaration order must not matter.
	tpl := mustTemplate(t, []mapping.Line{
		{ID: 10, DisplayOrder: 40, Name: "Double net", Type: mapping.LineCalc, Level: 0, Formula: mustFormula("=3+3")},
		{ID: 1, DisplayOrder: 10, Name: "Expenses", Type: mapping.LineAccount, Level: 3, Include: []string{"6*"}},
		{ID: 2, DisplayOrder: 20, Name: "Revenue", Type: mapping.LineAccount, Level: 3, Include: []string{"7*"}},
		{ID: 3, DisplayOrder: 30, Name: "Net", Type: mapping.LineCalc, Level: 0, Formula: mustFormula("=2+1")},
	})
	st := Aggregate(tpl, []model.Entry{
		entry("622000", "-100"),
		entry("706000", "250"),
	})
	assert.True(t, st.Total(3).Equal(dec("150")))
	assert.True(t, st.Total(10).Equal(dec("300")))
}

func TestAggregate_EmptyEntries(t *testing.T) {
	tpl := mustTemplate(t, incomeLines())
	st := Aggregate(tpl, nil)
	for id, amt := range st.Amounts {
		assert.True(t, amt.IsZero(), "line %d", id)
	}
}

func TestAggregate_ConsistencyIdentity(t *testing.T) {
	// With only class-6/7 postings, the net line equals the raw sum of all
	// entry amounts, under any mapping that partitions classes 6 and 7.
	entries := []model.Entry{
		entry("622000", "-533.25"),
		entry("641000", "-1200.00"),
		entry("706000", "844.65"),
		entry("707000", "2000.00"),
	}
	raw := decimal.Zero
	for _, e := range entries {
		raw = raw.Add(e.Amount)
	}

	primary := mustTemplate(t, []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "Expenses", Type: mapping.LineAccount, Level: 3, Include: []string{"6*"}},
		{ID: 2, DisplayOrder: 20, Name: "Revenue", Type: mapping.LineAccount, Level: 3, Include: []string{"7*"}},
		{ID: 3, DisplayOrder: 30, Name: "Net", Type: mapping.LineCalc, Level: 0, Formula: mustFormula("=1+2")},
	})
	secondary := mustTemplate(t, []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "Goods margin", Type: mapping.LineAccount, Level: 3, Include: []string{"707"}},
		{ID: 2, DisplayOrder: 20, Name: "Other revenue", Type: mapping.LineAccount, Level: 3, Include: []string{"7*"}, Exclude: []string{"707"}},
		{ID: 3, DisplayOrder: 30, Name: "Staff", Type: mapping.LineAccount, Level: 3, Include: []string{"64*"}},
		{ID: 4, DisplayOrder: 40, Name: "Other charges", Type: mapping.LineAccount, Level: 3, Include: []string{"6*"}, Exclude: []string{"64"}},
		{ID: 5, DisplayOrder: 50, Name: "Net", Type: mapping.LineCalc, Level: 0, Formula: mustFormula("=SUM(1;2;3;4)")},
	})

	stP := Aggregate(primary, entries)
	stS := Aggregate(secondary, entries)
	assert.True(t, stP.Total(3).Equal(raw), "primary net %s vs raw %s", stP.Total(3), raw)
	assert.True(t, stS.Total(5).Equal(raw), "secondary net %s vs raw %s", stS.Total(5), raw)
}
