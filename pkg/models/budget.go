package models

// Income represents one person's income line.
type Income struct {
	Name   string  `yaml:"name" json:"name"`
	Amount float64 `yaml:"amount" json:"amount"`
}

// Expense represents a budgeted expense.
//   - Planned is the initial estimated amount.
//   - Actual is optional and filled in later for verification.
//   - Selected marks the expense as counting towards savings. Nil means unknown, not false.
type Expense struct {
	Category string   `yaml:"category" json:"category"`
	Planned  float64  `yaml:"planned" json:"planned"`
	Actual   *float64 `yaml:"actual,omitempty" json:"actual,omitempty"`
	Selected *bool    `yaml:"selected,omitempty" json:"selected,omitempty"`
}

// BudgetData is the root structure holding all incomes and expenses.
type BudgetData struct {
	Incomes  []Income  `yaml:"incomes" json:"incomes"`
	Expenses []Expense `yaml:"expenses" json:"expenses"`
}

// Clone returns a deep copy of d. Optional expense fields are copied so the
// clone shares no pointers with d.
func (d BudgetData) Clone() BudgetData {
	out := BudgetData{
		Incomes:  make([]Income, len(d.Incomes)),
		Expenses: make([]Expense, len(d.Expenses)),
	}
	copy(out.Incomes, d.Incomes)
	for i, e := range d.Expenses {
		out.Expenses[i] = e.Clone()
	}
	return out
}

// Clone returns a copy of e with its own Actual and Selected values.
func (e Expense) Clone() Expense {
	e.Actual = copyPtr(e.Actual)
	e.Selected = copyPtr(e.Selected)
	return e
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
