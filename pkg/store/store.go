// Package store holds the live budget shared by the HTTP handlers. It is an
// observable container: subscribers see the current value on subscription and
// every value set afterwards.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yurifrl/budgetu/pkg/models"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// Subscriber receives a private copy of the budget after every change.
type Subscriber func(models.BudgetData)

type Store struct {
	mu     sync.RWMutex
	data   models.BudgetData
	subs   map[int]Subscriber
	nextID int
}

// New creates a store holding a copy of initial.
func New(initial models.BudgetData) *Store {
	return &Store{
		data: initial.Clone(),
		subs: make(map[int]Subscriber),
	}
}

// Snapshot returns a deep copy of the current budget. Exports read from a
// snapshot so concurrent mutations never show through half-applied.
func (s *Store) Snapshot() models.BudgetData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Set replaces the whole budget.
func (s *Store) Set(d models.BudgetData) {
	_ = s.Update(func(cur *models.BudgetData) error {
		*cur = d.Clone()
		return nil
	})
}

// Update applies fn to a working copy of the budget. The copy replaces the
// current value only when fn returns nil.
func (s *Store) Update(fn func(*models.BudgetData) error) error {
	s.mu.Lock()
	work := s.data.Clone()
	if err := fn(&work); err != nil {
		s.mu.Unlock()
		return err
	}
	s.data = work
	subs := s.subscribers()
	s.mu.Unlock()

	for _, sub := range subs {
		sub(work.Clone())
	}
	return nil
}

// Subscribe registers fn and calls it right away with the current value.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	cur := s.data.Clone()
	s.mu.Unlock()

	fn(cur)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) subscribers() []Subscriber {
	out := make([]Subscriber, 0, len(s.subs))
	for i := 0; i < s.nextID; i++ {
		if sub, ok := s.subs[i]; ok {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Store) AddIncome(in models.Income) {
	_ = s.Update(func(d *models.BudgetData) error {
		d.Incomes = append(d.Incomes, in)
		return nil
	})
}

func (s *Store) UpdateIncome(i int, in models.Income) error {
	return s.Update(func(d *models.BudgetData) error {
		if err := checkIndex(i, len(d.Incomes)); err != nil {
			return fmt.Errorf("income %d: %w", i, err)
		}
		d.Incomes[i] = in
		return nil
	})
}

func (s *Store) RemoveIncome(i int) error {
	return s.Update(func(d *models.BudgetData) error {
		if err := checkIndex(i, len(d.Incomes)); err != nil {
			return fmt.Errorf("income %d: %w", i, err)
		}
		d.Incomes = append(d.Incomes[:i], d.Incomes[i+1:]...)
		return nil
	})
}

func (s *Store) AddExpense(e models.Expense) {
	_ = s.Update(func(d *models.BudgetData) error {
		d.Expenses = append(d.Expenses, e.Clone())
		return nil
	})
}

func (s *Store) UpdateExpense(i int, e models.Expense) error {
	return s.Update(func(d *models.BudgetData) error {
		if err := checkIndex(i, len(d.Expenses)); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
		d.Expenses[i] = e.Clone()
		return nil
	})
}

func (s *Store) RemoveExpense(i int) error {
	return s.Update(func(d *models.BudgetData) error {
		if err := checkIndex(i, len(d.Expenses)); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
		d.Expenses = append(d.Expenses[:i], d.Expenses[i+1:]...)
		return nil
	})
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return ErrIndexOutOfRange
	}
	return nil
}
