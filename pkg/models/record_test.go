package models

import (
	"reflect"
	"testing"
)

func sampleBudget() BudgetData {
	return BudgetData{
		Incomes: []Income{
			{Name: "A", Amount: 100},
			{Name: "", Amount: 0},
		},
		Expenses: []Expense{
			{Category: "Food", Planned: 50, Actual: Float(45), Selected: Bool(true)},
			{Category: "Rent", Planned: 900},
			{Category: "Fun", Planned: 20, Selected: Bool(false)},
		},
	}
}

func TestFlattenOrderAndCount(t *testing.T) {
	d := sampleBudget()
	records := Flatten(d)

	if len(records) != len(d.Incomes)+len(d.Expenses) {
		t.Fatalf("expected %d records, got %d", len(d.Incomes)+len(d.Expenses), len(records))
	}

	for i, in := range d.Incomes {
		r := records[i]
		if r.Type != TypeIncome {
			t.Errorf("record %d: expected type Income, got %s", i, r.Type)
		}
		if r.Name == nil || *r.Name != in.Name || r.Amount == nil || *r.Amount != in.Amount {
			t.Errorf("record %d: income fields mismatch: %+v", i, r)
		}
		if r.Category != nil || r.Planned != nil || r.Actual != nil || r.Selected != nil {
			t.Errorf("record %d: expense fields must be nil on an income: %+v", i, r)
		}
	}

	for j, e := range d.Expenses {
		i := len(d.Incomes) + j
		r := records[i]
		if r.Type != TypeExpense {
			t.Errorf("record %d: expected type Expense, got %s", i, r.Type)
		}
		if r.Category == nil || *r.Category != e.Category || r.Planned == nil || *r.Planned != e.Planned {
			t.Errorf("record %d: expense fields mismatch: %+v", i, r)
		}
		if r.Name != nil || r.Amount != nil {
			t.Errorf("record %d: income fields must be nil on an expense: %+v", i, r)
		}
		if (r.Actual == nil) != (e.Actual == nil) {
			t.Errorf("record %d: actual presence mismatch", i)
		} else if r.Actual != nil && *r.Actual != *e.Actual {
			t.Errorf("record %d: expected actual %v, got %v", i, *e.Actual, *r.Actual)
		}
		if (r.Selected == nil) != (e.Selected == nil) {
			t.Errorf("record %d: selected presence mismatch", i)
		} else if r.Selected != nil && *r.Selected != *e.Selected {
			t.Errorf("record %d: expected selected %v, got %v", i, *e.Selected, *r.Selected)
		}
	}
}

func TestFlattenEmpty(t *testing.T) {
	records := Flatten(BudgetData{})
	if records == nil {
		t.Fatal("expected an empty slice, got nil")
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestFlattenIdempotent(t *testing.T) {
	d := sampleBudget()
	if !reflect.DeepEqual(Flatten(d), Flatten(d)) {
		t.Error("flattening the same budget twice gave different records")
	}
}

func TestFlattenDoesNotAliasSource(t *testing.T) {
	d := sampleBudget()
	records := Flatten(d)

	*d.Expenses[0].Actual = 1
	*d.Expenses[0].Selected = false
	d.Incomes[0].Name = "changed"

	r := records[len(d.Incomes)]
	if *r.Actual != 45 || *r.Selected != true {
		t.Errorf("record changed with its source: actual=%v selected=%v", *r.Actual, *r.Selected)
	}
	if *records[0].Name != "A" {
		t.Errorf("expected name A, got %q", *records[0].Name)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := sampleBudget()
	c := d.Clone()

	*c.Expenses[0].Actual = 0
	c.Incomes[0].Amount = 1

	if *d.Expenses[0].Actual != 45 || d.Incomes[0].Amount != 100 {
		t.Error("mutating the clone changed the original")
	}
}
