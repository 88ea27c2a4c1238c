package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// Summary holds the budget totals shown next to a preview.
type Summary struct {
	Income          float64 `json:"income"`
	Planned         float64 `json:"planned"`
	Actual          float64 `json:"actual"`
	SelectedPlanned float64 `json:"selected_planned"`
	Savings         float64 `json:"savings"`
}

// Summarize computes budget totals. Actual only counts expenses that carry an
// actual value, and savings subtract only the expenses explicitly selected.
// Non-finite amounts are left out of every total.
func Summarize(d BudgetData) Summary {
	var income, planned, actual, selected decimal.Decimal

	for _, in := range d.Incomes {
		income = income.Add(dec(in.Amount))
	}
	for _, e := range d.Expenses {
		p := dec(e.Planned)
		planned = planned.Add(p)
		if e.Actual != nil {
			actual = actual.Add(dec(*e.Actual))
		}
		if e.Selected != nil && *e.Selected {
			selected = selected.Add(p)
		}
	}

	return Summary{
		Income:          income.InexactFloat64(),
		Planned:         planned.InexactFloat64(),
		Actual:          actual.InexactFloat64(),
		SelectedPlanned: selected.InexactFloat64(),
		Savings:         income.Sub(selected).InexactFloat64(),
	}
}

func dec(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
