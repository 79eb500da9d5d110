package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDebitCreditParser(t *testing.T) {
	csvData := `date,code,description,debit,credit
2025-03-01,622000,Accounting fees,1000.00,
2025-03-02,706000,Consulting,,2500.00
`
	entries, err := (&DebitCreditParser{}).Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "622000", entries[0].Code)
	assert.True(t, entries[0].Debit.Equal(dec("1000.00")))
	assert.True(t, entries[0].Credit.IsZero())

	norm := entries[1].Normalize()
	assert.True(t, norm.Amount.Equal(dec("2500.00")))
}

func TestDebitCreditParser_FrenchFormats(t *testing.T) {
	csvData := "date,code,description,debit,credit\n" +
		"15/03/2025,641000,Salaires,\"1 234,56\",\n"

	entries, err := (&DebitCreditParser{}).Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), entries[0].Date)
	assert.True(t, entries[0].Debit.Equal(dec("1234.56")), "got %s", entries[0].Debit)
}

func TestSignedParser(t *testing.T) {
	csvData := `date,code,description,amount
2025-03-01,622000,Accounting fees,-1000.00
2025-03-02,706000,Consulting,2500.00
`
	entries, err := (&SignedParser{}).Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Negative signed amounts become debits, positives credits.
	assert.True(t, entries[0].Debit.Equal(dec("1000.00")))
	assert.True(t, entries[0].Credit.IsZero())
	assert.True(t, entries[1].Credit.Equal(dec("2500.00")))

	assert.True(t, entries[0].Normalize().Amount.Equal(dec("-1000.00")))
}

func TestParser_BadDate(t *testing.T) {
	csvData := "date,code,description,amount\n03-01-2025,622000,x,1\n"
	_, err := (&SignedParser{}).Parse(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestDetect(t *testing.T) {
	r := DefaultRegistry()

	p, ok := r.Detect([]string{"date", "code", "description", "debit", "credit"})
	require.True(t, ok)
	assert.Equal(t, "debit-credit", p.Format())

	p, ok = r.Detect([]string{"Date", "Code", "Description", "Amount"})
	require.True(t, ok)
	assert.Equal(t, "signed", p.Format())

	_, ok = r.Detect([]string{"foo", "bar"})
	assert.False(t, ok)
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("SIGNED"))
	assert.Nil(t, r.Get("chase"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(&SignedParser{})
	assert.Panics(t, func() { r.Register(&SignedParser{}) })
}
