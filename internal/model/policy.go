package model

import "github.com/shopspring/decimal"

// Policy holds the balance rules applied to every account in a store.
type Policy struct {
	MinimumBalance        decimal.Decimal // savings floor after a withdrawal
	OverdraftLimit        decimal.Decimal // how far below zero a current account may go
	InterestRate          decimal.Decimal // per accrual, e.g. 0.04
	MinimumOpeningDeposit decimal.Decimal // applies to every kind
	Currency              string          // prefix used in history entries
}

// DefaultPolicy returns the standard rules.
func DefaultPolicy() Policy {
	return Policy{
		MinimumBalance:        decimal.NewFromInt(500),
		OverdraftLimit:        decimal.NewFromInt(5000),
		InterestRate:          decimal.RequireFromString("0.04"),
		MinimumOpeningDeposit: decimal.NewFromInt(500),
		Currency:              "₹",
	}
}

// Money formats an amount for history entries, e.g. "₹1040.00".
func (p Policy) Money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + p.Currency + d.Neg().StringFixed(2)
	}
	return p.Currency + d.StringFixed(2)
}
