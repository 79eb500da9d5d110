package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrep-dev/finrep/internal/engine"
	"github.com/finrep-dev/finrep/internal/ratios"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "€1,234.56", FormatAmount(decimal.RequireFromString("1234.56"), "EUR"))
	assert.Equal(t, "-€500.00", FormatAmount(decimal.RequireFromString("-500"), "EUR"))
	assert.Equal(t, "1234.56", FormatAmount(decimal.RequireFromString("1234.56"), ""))

	// Unregistered codes take the plain form, not a bare-code suffix.
	assert.Equal(t, "1234.56", FormatAmount(decimal.RequireFromString("1234.56"), "ZZZ"))
}

func TestView(t *testing.T) {
	vt := &engine.ViewTable{Rows: []engine.ViewRow{
		{DisplayOrder: 10, ID: 1, Level: 1, Name: "Revenue", Type: "acc", Amount: decimal.RequireFromString("1000")},
		{DisplayOrder: 20, ID: 3, Level: 0, Name: "Result", Type: "calc", Amount: decimal.RequireFromString("750")},
	}}

	var sb strings.Builder
	require.NoError(t, View(&sb, "Income statement", vt, "EUR"))

	out := sb.String()
	assert.Contains(t, out, "Income statement")
	assert.Contains(t, out, "Revenue")
	assert.Contains(t, out, "€1,000.00")
}

func TestRatios_InvalidShowsNaN(t *testing.T) {
	results := []ratios.Result{
		{Key: "margin", Label: "Net margin", Level: ratios.LevelBasic, Unit: "ratio", Value: decimal.RequireFromString("0.7512345"), Valid: true},
		{Key: "roa", Label: "Return on assets", Level: ratios.LevelAdvanced, Unit: "ratio", Reason: `missing measure "total_assets"`},
	}

	var sb strings.Builder
	require.NoError(t, Ratios(&sb, results))

	out := sb.String()
	assert.Contains(t, out, "0.7512")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "total_assets")
}

func TestMeasures(t *testing.T) {
	mt := engine.NewMeasureTable()
	mt.Set("revenue", decimal.RequireFromString("1000"), engine.MeasureMeta{Source: engine.SourcePrimary, LineID: 1})
	mt.Set("headcount", decimal.NewFromInt(12), engine.MeasureMeta{Source: engine.SourceExternal})

	var sb strings.Builder
	require.NoError(t, Measures(&sb, mt, ""))

	out := sb.String()
	assert.Contains(t, out, "revenue")
	assert.Contains(t, out, "external")
	assert.Contains(t, out, "primary")
}
