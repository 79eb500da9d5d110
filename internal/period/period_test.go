package period

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finrep-dev/finrep/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContains_InclusiveBounds(t *testing.T) {
	p := Period{From: date(2025, 1, 1), To: date(2025, 3, 31)}
	assert.True(t, p.Contains(date(2025, 1, 1)), "start boundary")
	assert.True(t, p.Contains(date(2025, 3, 31)), "end boundary")
	assert.True(t, p.Contains(date(2025, 2, 14)))
	assert.False(t, p.Contains(date(2024, 12, 31)))
	assert.False(t, p.Contains(date(2025, 4, 1)))
}

func TestContains_IgnoresClockTime(t *testing.T) {
	p := Period{From: date(2025, 1, 1), To: date(2025, 1, 31)}
	late := time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)
	assert.True(t, p.Contains(late))
}

func TestFilterEntries(t *testing.T) {
	entries := []model.Entry{
		{Date: date(2024, 12, 31), Code: "706000", Amount: decimal.NewFromInt(1)},
		{Date: date(2025, 1, 1), Code: "706000", Amount: decimal.NewFromInt(2)},
		{Date: date(2025, 1, 31), Code: "706000", Amount: decimal.NewFromInt(3)},
		{Date: date(2025, 2, 1), Code: "706000", Amount: decimal.NewFromInt(4)},
	}
	got := FilterEntries(entries, Period{From: date(2025, 1, 1), To: date(2025, 1, 31)})
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Amount.IntPart())
	assert.Equal(t, int64(3), got[1].Amount.IntPart())
}

func TestDays(t *testing.T) {
	assert.Equal(t, 31, Period{From: date(2025, 1, 1), To: date(2025, 1, 31)}.Days())
	assert.Equal(t, 1, Period{From: date(2025, 1, 1), To: date(2025, 1, 1)}.Days())
	assert.Equal(t, 365, Period{From: date(2025, 1, 1), To: date(2025, 12, 31)}.Days())
}

func TestFiscalYear_CalendarStart(t *testing.T) {
	fy := FiscalYear(date(2025, 6, 15), time.January)
	assert.Equal(t, date(2025, 1, 1), fy.From)
	assert.Equal(t, date(2025, 12, 31), fy.To)
	assert.Equal(t, "FY2025", fy.Label)
}

func TestFiscalYear_OffsetStart(t *testing.T) {
	// Fiscal year starting in July: March 2025 is inside FY2024.
	fy := FiscalYear(date(2025, 3, 15), time.July)
	assert.Equal(t, date(2024, 7, 1), fy.From)
	assert.Equal(t, date(2025, 6, 30), fy.To)
	assert.Equal(t, "FY2024", fy.Label)

	fy = FiscalYear(date(2025, 8, 15), time.July)
	assert.Equal(t, date(2025, 7, 1), fy.From)
	assert.Equal(t, date(2026, 6, 30), fy.To)
}

func TestLastFiscalYear(t *testing.T) {
	p := LastFiscalYear(date(2025, 6, 15), time.January)
	assert.Equal(t, date(2024, 1, 1), p.From)
	assert.Equal(t, date(2024, 12, 31), p.To)
}

func TestYearToDate(t *testing.T) {
	p := YearToDate(date(2025, 3, 15), time.January)
	assert.Equal(t, date(2025, 1, 1), p.From)
	assert.Equal(t, date(2025, 3, 15), p.To)
}

func TestMonthToDate(t *testing.T) {
	p := MonthToDate(date(2025, 3, 15))
	assert.Equal(t, date(2025, 3, 1), p.From)
	assert.Equal(t, date(2025, 3, 15), p.To)
}

func TestLastMonth(t *testing.T) {
	p := LastMonth(date(2025, 3, 15))
	assert.Equal(t, date(2025, 2, 1), p.From)
	assert.Equal(t, date(2025, 2, 28), p.To)

	// Year boundary.
	p = LastMonth(date(2025, 1, 10))
	assert.Equal(t, date(2024, 12, 1), p.From)
	assert.Equal(t, date(2024, 12, 31), p.To)
}

func TestParse(t *testing.T) {
	p, err := Parse("2025-01-01:2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), p.From)
	assert.Equal(t, date(2025, 3, 31), p.To)

	_, err = Parse("2025-01-01")
	assert.Error(t, err)

	_, err = Parse("2025-03-31:2025-01-01")
	assert.Error(t, err)
}

func TestDerive(t *testing.T) {
	ref := date(2025, 3, 15)

	p, err := Derive("fy", ref, time.January)
	require.NoError(t, err)
	assert.Equal(t, "FY2025", p.Label)

	p, err = Derive("2025-01-01:2025-01-31", ref, time.January)
	require.NoError(t, err)
	assert.Equal(t, 31, p.Days())

	_, err = Derive("quarter", ref, time.January)
	assert.Error(t, err)
}
