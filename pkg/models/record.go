package models

// RecordType discriminates the source of a UnifiedRecord.
type RecordType string

const (
	TypeIncome  RecordType = "Income"
	TypeExpense RecordType = "Expense"
)

// Columns is the fixed column order shared by every export format.
var Columns = []string{"type", "name", "amount", "category", "planned", "actual", "selected"}

// UnifiedRecord is the flattened export shape able to hold either an income
// or an expense. Fields that do not apply to Type are nil and serialize as
// null. Field order here is the JSON key order.
type UnifiedRecord struct {
	Type     RecordType `json:"type"`
	Name     *string    `json:"name"`
	Amount   *float64   `json:"amount"`
	Category *string    `json:"category"`
	Planned  *float64   `json:"planned"`
	Actual   *float64   `json:"actual"`
	Selected *bool      `json:"selected"`
}

// Flatten converts d into a single slice of unified records: every income in
// list order, followed by every expense in list order. It never filters,
// sorts or fails, and the result is never nil.
func Flatten(d BudgetData) []UnifiedRecord {
	result := make([]UnifiedRecord, 0, len(d.Incomes)+len(d.Expenses))

	for _, income := range d.Incomes {
		name, amount := income.Name, income.Amount
		result = append(result, UnifiedRecord{
			Type:   TypeIncome,
			Name:   &name,
			Amount: &amount,
		})
	}

	for _, expense := range d.Expenses {
		category, planned := expense.Category, expense.Planned
		result = append(result, UnifiedRecord{
			Type:     TypeExpense,
			Category: &category,
			Planned:  &planned,
			Actual:   copyPtr(expense.Actual),
			Selected: copyPtr(expense.Selected),
		})
	}

	return result
}
