package model

// Account is one row of the chart of accounts.
type Account struct {
	Code string
	Name string
}
