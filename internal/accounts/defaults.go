package accounts

import "github.com/finrep-dev/finrep/internal/model"

// DefaultChart returns the starter chart written by `finrep init`: the class
// 6/7 prefixes of the French PCG that the bundled mapping templates match,
// plus the balance-sheet classes entries commonly reference.
func DefaultChart() []model.Account {
	return []model.Account{
		{Code: "10", Name: "Capital and reserves"},
		{Code: "16", Name: "Loans and similar debts"},
		{Code: "21", Name: "Tangible fixed assets"},
		{Code: "40", Name: "Suppliers and related accounts"},
		{Code: "41", Name: "Customers and related accounts"},
		{Code: "51", Name: "Banks and financial institutions"},
		{Code: "53", Name: "Cash"},
		{Code: "60", Name: "Purchases"},
		{Code: "606", Name: "Non-stored supplies"},
		{Code: "61", Name: "External services"},
		{Code: "62", Name: "Other external services"},
		{Code: "622", Name: "Fees and professional services"},
		{Code: "63", Name: "Taxes and similar payments"},
		{Code: "64", Name: "Staff costs"},
		{Code: "641", Name: "Staff remuneration"},
		{Code: "645", Name: "Social security contributions"},
		{Code: "66", Name: "Financial expenses"},
		{Code: "67", Name: "Exceptional expenses"},
		{Code: "68", Name: "Depreciation and provisions"},
		{Code: "70", Name: "Sales of goods and services"},
		{Code: "701", Name: "Sales of finished goods"},
		{Code: "706", Name: "Services rendered"},
		{Code: "707", Name: "Sales of merchandise"},
		{Code: "709", Name: "Rebates and discounts granted"},
		{Code: "74", Name: "Operating subsidies"},
		{Code: "76", Name: "Financial income"},
		{Code: "77", Name: "Exceptional income"},
	}
}
