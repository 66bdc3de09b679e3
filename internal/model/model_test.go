package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrandTotal_SumsAllCharges(t *testing.T) {
	o := Order{
		Price:             decimal.NewFromInt(500),
		AdditionalCharges: decimal.NewFromInt(50),
		DeliveryCharge:    decimal.NewFromInt(30),
	}
	assert.True(t, o.GrandTotal().Equal(decimal.NewFromInt(580)), "got %s", o.GrandTotal())
}

func TestGrandTotal_AbsentExtrasAreZero(t *testing.T) {
	o := Order{Price: decimal.NewFromInt(500)}
	assert.True(t, o.GrandTotal().Equal(decimal.NewFromInt(500)), "got %s", o.GrandTotal())
}

func TestOrderEqual_ComparesDecimalsNumerically(t *testing.T) {
	a := Order{ID: "a", Price: decimal.RequireFromString("500.50")}
	b := Order{ID: "a", Price: decimal.RequireFromString("500.5")}
	assert.True(t, a.Equal(b))

	b.Price = decimal.NewFromInt(501)
	assert.False(t, a.Equal(b))
}

func TestParseDate_Formats(t *testing.T) {
	tests := []struct {
		in   string
		want Date
	}{
		{"2026-10-18", NewDate(2026, time.October, 18)},
		{" 2026-10-18 ", NewDate(2026, time.October, 18)},
		{"2026-10-18T09:30:00Z", NewDate(2026, time.October, 18)},
		{"2026-10-18T09:30:00.000Z", NewDate(2026, time.October, 18)},
		{"2026-10-18T23:30:00+05:30", NewDate(2026, time.October, 18)},
		{"2026-10-18T03:30:00+05:30", NewDate(2026, time.October, 17)},
		{"", Date{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDateIn(tt.in, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDateIn_TimestampTakesLocalDay(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	got, err := ParseDateIn("2024-03-14T18:30:00Z", ist)
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 15), got)

	got, err = ParseDateIn("2024-03-14", ist)
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 14), got, "plain dates carry no zone")
}

func TestParseDate_UsesLocalZone(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("IST", 5*60*60+30*60)
	t.Cleanup(func() { time.Local = saved })

	got, err := ParseDate("2024-03-14T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, time.March, 15), got)
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("18/10/2026")
	assert.Error(t, err)
}

func TestDate_StringAndZero(t *testing.T) {
	assert.Equal(t, "", Date{}.String())
	assert.True(t, Date{}.IsZero())
	assert.Equal(t, "2026-01-05", NewDate(2026, time.January, 5).String())
}

func TestDate_AddDaysCrossesMonth(t *testing.T) {
	d := NewDate(2026, time.October, 30).AddDays(3)
	assert.Equal(t, NewDate(2026, time.November, 2), d)
}

func TestDate_Compare(t *testing.T) {
	a := NewDate(2026, time.March, 1)
	b := NewDate(2026, time.February, 28)
	assert.Equal(t, 1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, b.Before(a))
}

func TestDate_InMonth(t *testing.T) {
	d := NewDate(2026, time.October, 18)
	assert.True(t, d.InMonth(2026, time.October))
	assert.False(t, d.InMonth(2025, time.October))
	assert.False(t, Date{}.InMonth(0, 0))
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		D Date `json:"d"`
	}
	data, err := json.Marshal(wrapper{D: NewDate(2026, time.October, 18)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2026-10-18"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"d":""}`), &w))
	assert.True(t, w.D.IsZero())
}

func TestCustomerForOrder(t *testing.T) {
	o := Order{
		CustomerName:  "Asha",
		CustomerPhone: "9876543210",
		OrderDate:     NewDate(2026, time.October, 1),
	}
	c := CustomerForOrder("c1", o)
	assert.Equal(t, Customer{ID: "c1", Name: "Asha", Phone: "9876543210", FirstOrderDate: o.OrderDate}, c)
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, Status("cancelled").Valid())
}

func TestCollections_CloneIsIndependent(t *testing.T) {
	c := Collections{Orders: []Order{{ID: "a"}}}
	cp := c.Clone()
	cp.Orders[0].ID = "b"
	assert.Equal(t, "a", c.Orders[0].ID)
}

func TestFindHelpers(t *testing.T) {
	orders := []Order{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, FindOrder(orders, "b"))
	assert.Equal(t, -1, FindOrder(orders, "z"))

	customers := []Customer{{ID: "c1", Phone: "111"}}
	assert.Equal(t, 0, FindCustomerByPhone(customers, "111"))
	assert.Equal(t, -1, FindCustomerByPhone(customers, "222"))
	assert.Equal(t, 0, FindCustomer(customers, "c1"))

	expenses := []Expense{{ID: "e1"}}
	assert.Equal(t, 0, FindExpense(expenses, "e1"))
}
