package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrep-dev/finrep/internal/mapping"
	"github.com/finrep-dev/finrep/internal/model"
)

// mockChart implements AccountNamer for view tests.
type mockChart map[string]string

func (m mockChart) Label(code string) string { return m[code] }

func leveledLines() []mapping.Line {
	return []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "Operating revenue", Type: mapping.LineAccount, Level: 3, Include: []string{"70*"}},
		{ID: 2, DisplayOrder: 20, Name: "Revenue", Type: mapping.LineCalc, Level: 2, Formula: mustFormula("=1")},
		{ID: 3, DisplayOrder: 30, Name: "Operating expenses", Type: mapping.LineAccount, Level: 3, Include: []string{"6*"}},
		{ID: 4, DisplayOrder: 40, Name: "Expenses", Type: mapping.LineCalc, Level: 1, Formula: mustFormula("=3")},
		{ID: 5, DisplayOrder: 50, Name: "Net income", Type: mapping.LineCalc, Level: 0, Formula: mustFormula("=2+4")},
	}
}

func rowIDs(vt *ViewTable) []int {
	ids := make([]int, len(vt.Rows))
	for i, r := range vt.Rows {
		ids[i] = r.ID
	}
	return ids
}

func TestRender_LevelFilters(t *testing.T) {
	st := Aggregate(mustTemplate(t, leveledLines()), nil)

	assert.Equal(t, []int{4, 5}, rowIDs(Render(st, ViewSimplified, nil)))
	assert.Equal(t, []int{2, 4, 5}, rowIDs(Render(st, ViewRegular, nil)))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, rowIDs(Render(st, ViewDetailed, nil)))
}

func TestRender_ViewMonotonicity(t *testing.T) {
	st := Aggregate(mustTemplate(t, leveledLines()), []model.Entry{
		entry("701000", "100"),
		entry("622000", "-40"),
	})

	simplified := rowIDs(Render(st, ViewSimplified, nil))
	regular := rowIDs(Render(st, ViewRegular, nil))
	detailed := rowIDs(Render(st, ViewDetailed, nil))
	assert.Subset(t, regular, simplified)
	assert.Subset(t, detailed, regular)
}

func TestRender_RenumbersDisplayOrder(t *testing.T) {
	st := Aggregate(mustTemplate(t, leveledLines()), nil)
	vt := Render(st, ViewDetailed, nil)
	for i, row := range vt.Rows {
		assert.Equal(t, (i+1)*10, row.DisplayOrder)
	}
}

func TestRender_CompleteSynthesizesAccountRows(t *testing.T) {
	st := Aggregate(mustTemplate(t, leveledLines()), []model.Entry{
		entry("706000", "2500"),
		entry("701000", "100"),
		entry("701000", "50"),
		entry("622000", "-1000"),
	})
	chart := mockChart{"701000": "Sales of finished goods", "706000": "Services"}
	vt := Render(st, ViewComplete, chart)

	// Children directly under line 1, sorted by code, ids parent*1000+idx.
	assert.Equal(t, []int{1, 1001, 1002, 2, 3, 3001, 4, 5}, rowIDs(vt))

	child := vt.Rows[1]
	assert.Equal(t, 4, child.Level)
	assert.Equal(t, "701000 Sales of finished goods", child.Name)
	assert.True(t, child.Amount.Equal(dec("150")))

	// No chart label: bare code.
	assert.Equal(t, "622000", vt.Rows[5].Name)

	// Renumbering covers synthesized rows too.
	for i, row := range vt.Rows {
		assert.Equal(t, (i+1)*10, row.DisplayOrder)
	}
}

func TestRender_CompleteSkipsZeroedCodes(t *testing.T) {
	st := Aggregate(mustTemplate(t, leveledLines()), []model.Entry{
		entry("701000", "100"),
		entry("701000", "-100"),
		entry("706000", "10"),
	})
	vt := Render(st, ViewComplete, nil)
	assert.Equal(t, []int{1, 1001, 2, 3, 4, 5}, rowIDs(vt))
	assert.Equal(t, "706000", vt.Rows[1].Name)
}

func TestParseView(t *testing.T) {
	v, err := ParseView(" Complete ")
	require.NoError(t, err)
	assert.Equal(t, ViewComplete, v)

	_, err = ParseView("everything")
	assert.Error(t, err)
}
