// Package report aggregates transaction sets into balance and category
// summaries for dashboard rendering.
package report

import (
	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// Summary is the balance overview of the current (non-future) subset of a
// transaction set.
type Summary struct {
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	TotalBalance     decimal.Decimal
	AvailableBalance decimal.Decimal
}

// Summarize sums income and expenses over the transactions dated on or
// before today. Future-dated entries, projected occurrences included, do
// not contribute to the current balance. The result is independent of
// input order.
func Summarize(transactions []core.Transaction, today core.Date) Summary {
	income := decimal.Zero
	expenses := decimal.Zero
	for _, t := range transactions {
		if t.Date.After(today) {
			continue
		}
		switch t.Kind {
		case core.Income:
			income = income.Add(t.Amount)
		case core.Expense:
			expenses = expenses.Add(t.Amount)
		}
	}
	balance := income.Sub(expenses)
	return Summary{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		TotalBalance:     balance,
		// No investable-funds deduction yet, so available equals total.
		AvailableBalance: balance,
	}
}
