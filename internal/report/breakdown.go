package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"bilancio/internal/core"
)

// CategoryShare is one group of the expense breakdown.
type CategoryShare struct {
	Name       string
	Amount     decimal.Decimal
	Percentage float64
	Color      string
}

var oneHundred = decimal.NewFromInt(100)

// ByCategory groups expense transactions by subcategory name, falling
// back to the category name and then to "uncategorized", and computes
// each group's share of total expenses.
//
// The group color is the first one encountered. Percentages are exact up
// to float conversion; rounding for display is the caller's concern.
// When there are no expenses the breakdown is empty, never a division
// by zero. Groups are sorted by amount descending, name ascending on ties
// to keep the output deterministic.
func ByCategory(transactions []core.Transaction) []CategoryShare {
	type group struct {
		amount decimal.Decimal
		color  string
	}
	groups := make(map[string]*group)
	total := decimal.Zero

	for _, t := range transactions {
		if t.Kind != core.Expense {
			continue
		}
		amount := t.Amount.Abs()
		label := t.CategoryLabel()
		g, ok := groups[label]
		if !ok {
			g = &group{amount: decimal.Zero, color: t.CategoryColor()}
			groups[label] = g
		}
		g.amount = g.amount.Add(amount)
		total = total.Add(amount)
	}

	if total.IsZero() {
		return nil
	}

	shares := make([]CategoryShare, 0, len(groups))
	for name, g := range groups {
		pct, _ := g.amount.Mul(oneHundred).Div(total).Float64()
		shares = append(shares, CategoryShare{
			Name:       name,
			Amount:     g.amount,
			Percentage: pct,
			Color:      g.color,
		})
	}

	sort.Slice(shares, func(i, j int) bool {
		if !shares[i].Amount.Equal(shares[j].Amount) {
			return shares[i].Amount.GreaterThan(shares[j].Amount)
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}
