package store

import (
	"context"
	"slices"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/model"
)

// AddExpense assigns a new id to e, appends it, and returns the stored
// expense. A zero date becomes today.
func (s *Store) AddExpense(ctx context.Context, e model.Expense) (model.Expense, error) {
	if s.closed.Load() {
		return model.Expense{}, ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.ids.NewID()
	if e.Date.IsZero() {
		e.Date = model.DateOf(s.clock.Now())
	}
	s.expenses.Next(append(s.expenses.Value(), e))

	return e, s.commit(ctx, "add expense", cache.KeyExpenses)
}

// UpdateExpense replaces the expense with e's id; unknown ids are a no-op.
func (s *Store) UpdateExpense(ctx context.Context, e model.Expense) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := s.expenses.Value()
	i := model.FindExpense(expenses, e.ID)
	if i < 0 {
		s.logger.Debug("update ignored: unknown expense", "expense_id", e.ID)
		return nil
	}
	expenses[i] = e
	s.expenses.Next(expenses)

	return s.commit(ctx, "update expense", cache.KeyExpenses)
}

// DeleteExpense removes the expense with id; unknown ids are a no-op.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses := s.expenses.Value()
	i := model.FindExpense(expenses, id)
	if i < 0 {
		s.logger.Debug("delete ignored: unknown expense", "expense_id", id)
		return nil
	}
	s.expenses.Next(slices.Delete(expenses, i, i+1))

	return s.commit(ctx, "delete expense", cache.KeyExpenses)
}
