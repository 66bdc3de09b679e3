package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/report"
)

// Read accessors return copies of the current state. They never block on
// mutations or touch the network.

// Orders returns the current orders.
func (s *Store) Orders() []model.Order { return s.orders.Value() }

// Customers returns the current customers.
func (s *Store) Customers() []model.Customer { return s.customers.Value() }

// Expenses returns the current expenses.
func (s *Store) Expenses() []model.Expense { return s.expenses.Value() }

// Loading reports whether the startup sequence is still running.
func (s *Store) Loading() bool { return s.loading.Value() }

// Revision returns the revision of the latest state transition.
func (s *Store) Revision() int64 { return s.revision.Current() }

// Snapshot returns all three collections. Each collection is read
// separately, so a concurrent mutation may land between reads.
func (s *Store) Snapshot() model.Collections {
	return s.snapshot()
}

// Order looks up one order by id.
func (s *Store) Order(id string) (model.Order, bool) {
	orders := s.orders.Value()
	if i := model.FindOrder(orders, id); i >= 0 {
		return orders[i], true
	}
	return model.Order{}, false
}

// Customer looks up one customer by id.
func (s *Store) Customer(id string) (model.Customer, bool) {
	customers := s.customers.Value()
	if i := model.FindCustomer(customers, id); i >= 0 {
		return customers[i], true
	}
	return model.Customer{}, false
}

// Expense looks up one expense by id.
func (s *Store) Expense(id string) (model.Expense, bool) {
	expenses := s.expenses.Value()
	if i := model.FindExpense(expenses, id); i >= 0 {
		return expenses[i], true
	}
	return model.Expense{}, false
}

// WatchOrders calls fn with the current orders and then with every new
// orders snapshot until cancel is called.
func (s *Store) WatchOrders(fn func([]model.Order)) (cancel func()) {
	return s.orders.Subscribe(fn)
}

// WatchCustomers is WatchOrders for customers.
func (s *Store) WatchCustomers(fn func([]model.Customer)) (cancel func()) {
	return s.customers.Subscribe(fn)
}

// WatchExpenses is WatchOrders for expenses.
func (s *Store) WatchExpenses(fn func([]model.Expense)) (cancel func()) {
	return s.expenses.Subscribe(fn)
}

// WatchLoading is WatchOrders for the loading flag.
func (s *Store) WatchLoading(fn func(bool)) (cancel func()) {
	return s.loading.Subscribe(fn)
}

// Today is the current calendar day by the store's clock.
func (s *Store) Today() model.Date {
	return model.DateOf(s.clock.Now())
}

// MonthlyRevenue sums the grand totals of orders placed in the month.
func (s *Store) MonthlyRevenue(year int, month time.Month) decimal.Decimal {
	return report.MonthlyRevenue(s.Orders(), year, month)
}

// MonthlyOrderCount counts orders placed in the month.
func (s *Store) MonthlyOrderCount(year int, month time.Month) int {
	return report.MonthlyOrderCount(s.Orders(), year, month)
}

// MonthlyEgglessCount counts eggless orders placed in the month.
func (s *Store) MonthlyEgglessCount(year int, month time.Month) int {
	return report.MonthlyEgglessCount(s.Orders(), year, month)
}

// NewCustomersCount counts customers whose first order falls in the month.
func (s *Store) NewCustomersCount(year int, month time.Month) int {
	return report.NewCustomersCount(s.Customers(), year, month)
}

// MonthlyExpenses sums the expenses dated in the month.
func (s *Store) MonthlyExpenses(year int, month time.Month) decimal.Decimal {
	return report.MonthlyExpenses(s.Expenses(), year, month)
}

// ExpensesInMonth returns the expenses dated in the month.
func (s *Store) ExpensesInMonth(year int, month time.Month) []model.Expense {
	return report.ExpensesInMonth(s.Expenses(), year, month)
}

// UpcomingOrders returns up to n undelivered orders due today or later,
// soonest first.
func (s *Store) UpcomingOrders(n int) []model.Order {
	return report.UpcomingOrders(s.Orders(), s.Today(), n)
}

// MonthSummary computes every dashboard figure for the month, net profit included.
func (s *Store) MonthSummary(year int, month time.Month) report.Summary {
	return report.MonthSummary(s.Snapshot(), year, month)
}

// FilterOrders returns the orders matching f, in f's sort order.
func (s *Store) FilterOrders(f report.OrderFilter) []model.Order {
	return report.FilterOrders(s.Orders(), f)
}
