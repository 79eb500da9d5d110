package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrep-dev/finrep/internal/mapping"
	"github.com/finrep-dev/finrep/internal/model"
)

func taggedStatement(t *testing.T, measure string, amount string) *Statement {
	t.Helper()
	tpl := mustTemplate(t, []mapping.Line{
		{ID: 1, DisplayOrder: 10, Name: "Revenue", Type: mapping.LineAccount, Level: 3,
			Include: []string{"70*"}, Measure: measure},
	})
	return Aggregate(tpl, []model.Entry{entry("701000", amount)})
}

func TestBuildMeasures_PrimaryOnly(t *testing.T) {
	mt, err := BuildMeasures(taggedStatement(t, "revenue", "1000"), nil, nil, nil)
	require.NoError(t, err)

	v, ok := mt.Get("revenue")
	require.True(t, ok)
	assert.True(t, v.Equal(dec("1000")))

	meta, _ := mt.Meta("revenue")
	assert.Equal(t, SourcePrimary, meta.Source)
	assert.Equal(t, 1, meta.LineID)
}

func TestBuildMeasures_AbsentIsNotZero(t *testing.T) {
	mt, err := BuildMeasures(taggedStatement(t, "revenue", "1000"), nil, nil, nil)
	require.NoError(t, err)

	_, ok := mt.Get("total_assets")
	assert.False(t, ok)
}

func TestBuildMeasures_CollisionIsError(t *testing.T) {
	primary := taggedStatement(t, "revenue", "1000")
	secondary := taggedStatement(t, "revenue", "900")

	_, err := BuildMeasures(primary, secondary, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revenue")
}

func TestBuildMeasures_AuthorityArbitrates(t *testing.T) {
	primary := taggedStatement(t, "revenue", "1000")
	secondary := taggedStatement(t, "revenue", "900")

	mt, err := BuildMeasures(primary, secondary, map[string]string{"revenue": SourceSecondary}, nil)
	require.NoError(t, err)
	v, _ := mt.Get("revenue")
	assert.True(t, v.Equal(dec("900")))

	mt, err = BuildMeasures(primary, secondary, map[string]string{"revenue": SourcePrimary}, nil)
	require.NoError(t, err)
	v, _ = mt.Get("revenue")
	assert.True(t, v.Equal(dec("1000")))
}

func TestBuildMeasures_UnknownAuthorityRejected(t *testing.T) {
	primary := taggedStatement(t, "revenue", "100")
	secondary := taggedStatement(t, "revenue", "150")

	// A winner outside primary/secondary must fail loudly, never fall back
	// to the primary's value.
	_, err := BuildMeasures(primary, secondary, map[string]string{"revenue": "balance"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "balance")
}

func TestBuildMeasures_DisjointSecondaryMerges(t *testing.T) {
	primary := taggedStatement(t, "revenue", "1000")
	secondary := taggedStatement(t, "value_added", "400")

	mt, err := BuildMeasures(primary, secondary, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"revenue", "value_added"}, mt.Names())
}

func TestBuildMeasures_ExternalWins(t *testing.T) {
	primary := taggedStatement(t, "revenue", "1000")
	external := map[string]decimal.Decimal{
		"revenue":      dec("9999"), // external overrides the statement value
		"total_assets": dec("50000"),
	}
	mt, err := BuildMeasures(primary, nil, nil, external)
	require.NoError(t, err)

	v, _ := mt.Get("revenue")
	assert.True(t, v.Equal(dec("9999")))
	meta, _ := mt.Meta("revenue")
	assert.Equal(t, SourceExternal, meta.Source)

	v, ok := mt.Get("total_assets")
	require.True(t, ok)
	assert.True(t, v.Equal(dec("50000")))
}

func TestMeasureTable_SetNeverOverwritesExternal(t *testing.T) {
	mt := NewMeasureTable()
	mt.Set("headcount", dec("12"), MeasureMeta{Source: SourceExternal})
	mt.Set("headcount", dec("99"), MeasureMeta{Source: SourceDerived})

	v, _ := mt.Get("headcount")
	assert.True(t, v.Equal(dec("12")))
}
