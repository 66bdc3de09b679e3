package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cakeledger/internal/model"
)

func d(s string) model.Date { return model.MustParseDate(s) }

func order(id, orderDate, dueDate string, price int64, status model.Status, eggless bool) model.Order {
	return model.Order{
		ID:           id,
		CustomerName: "Customer " + id,
		CakeType:     "Vanilla",
		Quantity:     1,
		Price:        decimal.NewFromInt(price),
		OrderDate:    d(orderDate),
		DueDate:      d(dueDate),
		Status:       status,
		IsEggless:    eggless,
	}
}

func ids(orders []model.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestMonthlyFigures(t *testing.T) {
	orders := []model.Order{
		order("a", "2024-03-01", "2024-03-05", 500, model.StatusDelivered, true),
		order("b", "2024-03-31", "2024-04-02", 300, model.StatusPending, false),
		order("c", "2024-04-01", "2024-04-03", 900, model.StatusPending, true),
	}
	orders[0].AdditionalCharges = decimal.NewFromInt(50)
	orders[0].DeliveryCharge = decimal.NewFromInt(30)

	assert.True(t, MonthlyRevenue(orders, 2024, time.March).Equal(decimal.NewFromInt(880)))
	assert.Equal(t, 2, MonthlyOrderCount(orders, 2024, time.March))
	assert.Equal(t, 1, MonthlyEgglessCount(orders, 2024, time.March))
	assert.Equal(t, 1, MonthlyOrderCount(orders, 2024, time.April))
	assert.True(t, MonthlyRevenue(orders, 2023, time.March).IsZero())
}

func TestNewCustomersCount(t *testing.T) {
	customers := []model.Customer{
		{ID: "1", Name: "A", FirstOrderDate: d("2024-03-02")},
		{ID: "2", Name: "B", FirstOrderDate: d("2024-03-20")},
		{ID: "3", Name: "C", FirstOrderDate: d("2024-02-20")},
		{ID: "4", Name: "D"},
	}
	assert.Equal(t, 2, NewCustomersCount(customers, 2024, time.March))
	assert.Equal(t, 1, NewCustomersCount(customers, 2024, time.February))
}

func TestExpenses(t *testing.T) {
	expenses := []model.Expense{
		{ID: "1", Description: "Flour", Amount: decimal.RequireFromString("450.50"), Date: d("2024-03-05")},
		{ID: "2", Description: "Boxes", Amount: decimal.NewFromInt(120), Date: d("2024-03-28")},
		{ID: "3", Description: "Oven", Amount: decimal.NewFromInt(9000), Date: d("2024-04-01")},
	}
	assert.True(t, MonthlyExpenses(expenses, 2024, time.March).Equal(decimal.RequireFromString("570.5")))

	march := ExpensesInMonth(expenses, 2024, time.March)
	require.Len(t, march, 2)
	assert.Equal(t, "1", march[0].ID)
	assert.Equal(t, "2", march[1].ID)
	assert.Empty(t, ExpensesInMonth(expenses, 2024, time.May))
}

func TestUpcomingOrders_OrderingExample(t *testing.T) {
	today := d("2024-03-10")
	orders := []model.Order{
		order("day1", "2024-03-01", "2024-03-11", 100, model.StatusPending, false),
		order("day3", "2024-03-01", "2024-03-13", 100, model.StatusDelivered, false),
		order("day2", "2024-03-01", "2024-03-12", 100, model.StatusReady, false),
	}

	got := UpcomingOrders(orders, today, 3)
	assert.Equal(t, []string{"day1", "day2"}, ids(got))
}

func TestUpcomingOrders_Boundaries(t *testing.T) {
	today := d("2024-03-10")
	orders := []model.Order{
		order("past", "2024-03-01", "2024-03-09", 100, model.StatusPending, false),
		order("today", "2024-03-01", "2024-03-10", 100, model.StatusInProgress, false),
		order("later", "2024-03-01", "2024-03-20", 100, model.StatusPending, false),
		order("tie", "2024-03-01", "2024-03-10", 100, model.StatusPending, false),
		{ID: "nodate", CustomerName: "x", CakeType: "y", Status: model.StatusPending},
	}

	assert.Equal(t, []string{"today", "tie", "later"}, ids(UpcomingOrders(orders, today, 5)))
	assert.Equal(t, []string{"today"}, ids(UpcomingOrders(orders, today, 1)))
	assert.Empty(t, UpcomingOrders(orders, today, 0))
}

func TestUpcomingOrders_DoesNotReorderInput(t *testing.T) {
	orders := []model.Order{
		order("b", "2024-03-01", "2024-03-12", 100, model.StatusPending, false),
		order("a", "2024-03-01", "2024-03-11", 100, model.StatusPending, false),
	}
	_ = UpcomingOrders(orders, d("2024-03-10"), 2)
	assert.Equal(t, []string{"b", "a"}, ids(orders))
}

func TestMonthSummary(t *testing.T) {
	snap := model.Collections{
		Orders: []model.Order{
			order("a", "2024-03-01", "2024-03-05", 1000, model.StatusDelivered, true),
		},
		Customers: []model.Customer{{ID: "c", Name: "A", FirstOrderDate: d("2024-03-01")}},
		Expenses: []model.Expense{
			{ID: "e", Description: "Flour", Amount: decimal.NewFromInt(400), Date: d("2024-03-02")},
		},
	}

	s := MonthSummary(snap, 2024, time.March)
	assert.Equal(t, 2024, s.Year)
	assert.Equal(t, time.March, s.Month)
	assert.True(t, s.Revenue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 1, s.Orders)
	assert.Equal(t, 1, s.Eggless)
	assert.Equal(t, 1, s.NewCustomers)
	assert.True(t, s.Expenses.Equal(decimal.NewFromInt(400)))
	assert.True(t, s.NetProfit.Equal(decimal.NewFromInt(600)))
}

func TestFilterOrders(t *testing.T) {
	orders := []model.Order{
		order("1", "2024-03-01", "2024-03-05", 500, model.StatusPending, false),
		order("2", "2024-03-03", "2024-03-06", 200, model.StatusReady, false),
		order("3", "2024-03-02", "2024-03-07", 800, model.StatusPending, false),
	}
	orders[0].CustomerName = "Asha Rao"
	orders[0].CustomerPhone = "9876543210"
	orders[1].CakeType = "Black Forest"

	tests := []struct {
		name   string
		filter OrderFilter
		want   []string
	}{
		{"default sort newest first", OrderFilter{}, []string{"2", "3", "1"}},
		{"date ascending", OrderFilter{Sort: SortDateAsc}, []string{"1", "3", "2"}},
		{"price descending", OrderFilter{Sort: SortPriceDesc}, []string{"3", "1", "2"}},
		{"price ascending", OrderFilter{Sort: SortPriceAsc}, []string{"2", "1", "3"}},
		{"search name case-insensitive", OrderFilter{Search: "ASHA"}, []string{"1"}},
		{"search cake type", OrderFilter{Search: "forest"}, []string{"2"}},
		{"search phone substring", OrderFilter{Search: "43210"}, []string{"1"}},
		{"status filter", OrderFilter{Status: model.StatusPending, Sort: SortDateAsc}, []string{"1", "3"}},
		{"no match", OrderFilter{Search: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterOrders(orders, tt.filter)))
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	s, err := ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortDateDesc, s)

	s, err = ParseSortOrder("price-asc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceAsc, s)

	_, err = ParseSortOrder("random")
	assert.Error(t, err)
}
