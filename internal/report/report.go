// Package report derives dashboard figures from collection snapshots.
//
// Every function is pure: it reads the slices it is given, never modifies
// them, and keeps no state between calls. Monthly figures select orders by
// orderDate, expenses by date and customers by firstOrderDate.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/cakeledger/internal/model"
)

// MonthlyRevenue sums the grand totals of orders placed in the month.
func MonthlyRevenue(orders []model.Order, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.OrderDate.InMonth(year, month) {
			total = total.Add(o.GrandTotal())
		}
	}
	return total
}

// MonthlyOrderCount counts orders placed in the month.
func MonthlyOrderCount(orders []model.Order, year int, month time.Month) int {
	n := 0
	for _, o := range orders {
		if o.OrderDate.InMonth(year, month) {
			n++
		}
	}
	return n
}

// MonthlyEgglessCount counts eggless orders placed in the month.
func MonthlyEgglessCount(orders []model.Order, year int, month time.Month) int {
	n := 0
	for _, o := range orders {
		if o.IsEggless && o.OrderDate.InMonth(year, month) {
			n++
		}
	}
	return n
}

// NewCustomersCount counts customers whose first order fell in the month.
func NewCustomersCount(customers []model.Customer, year int, month time.Month) int {
	n := 0
	for _, c := range customers {
		if c.FirstOrderDate.InMonth(year, month) {
			n++
		}
	}
	return n
}

// MonthlyExpenses sums expense amounts dated in the month.
func MonthlyExpenses(expenses []model.Expense, year int, month time.Month) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if e.Date.InMonth(year, month) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// ExpensesInMonth returns the expenses dated in the month, in collection
// order.
func ExpensesInMonth(expenses []model.Expense, year int, month time.Month) []model.Expense {
	var out []model.Expense
	for _, e := range expenses {
		if e.Date.InMonth(year, month) {
			out = append(out, e)
		}
	}
	return out
}

// UpcomingOrders returns up to n orders due today or later that are not
// delivered, soonest first. Orders without a due date are never upcoming.
// Orders sharing a due date keep their collection order.
func UpcomingOrders(orders []model.Order, today model.Date, n int) []model.Order {
	if n <= 0 {
		return nil
	}
	var out []model.Order
	for _, o := range orders {
		if o.Status == model.StatusDelivered || o.DueDate.IsZero() {
			continue
		}
		if o.DueDate.Before(today) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DueDate.Before(out[j].DueDate)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Summary is the dashboard view of one month.
type Summary struct {
	Year         int             `json:"year"`
	Month        time.Month      `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	Orders       int             `json:"orders"`
	Eggless      int             `json:"eggless"`
	NewCustomers int             `json:"newCustomers"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// MonthSummary computes every monthly figure for one snapshot.
func MonthSummary(snap model.Collections, year int, month time.Month) Summary {
	revenue := MonthlyRevenue(snap.Orders, year, month)
	expenses := MonthlyExpenses(snap.Expenses, year, month)
	return Summary{
		Year:         year,
		Month:        month,
		Revenue:      revenue,
		Orders:       MonthlyOrderCount(snap.Orders, year, month),
		Eggless:      MonthlyEgglessCount(snap.Orders, year, month),
		NewCustomers: NewCustomersCount(snap.Customers, year, month),
		Expenses:     expenses,
		NetProfit:    revenue.Sub(expenses),
	}
}
