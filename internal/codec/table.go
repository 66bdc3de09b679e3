package codec

import "github.com/roach88/cakeledger/internal/model"

// Column set versions. Bump when a header list changes.
const (
	OrderColumnsVersion    = 2 // v2 added deliveredImage
	CustomerColumnsVersion = 1
	ExpenseColumnsVersion  = 1
)

// Table is one named sheet: a header row followed by data rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Values returns the header followed by the data rows, the shape the
// remote endpoint writes verbatim.
func (t Table) Values() [][]string {
	values := make([][]string, 0, len(t.Rows)+1)
	values = append(values, t.Header)
	values = append(values, t.Rows...)
	return values
}

// SplitValues is the inverse of Values: the first row is the header.
// An empty input yields an empty table.
func SplitValues(name string, values [][]string) Table {
	if len(values) == 0 {
		return Table{Name: name}
	}
	return Table{Name: name, Header: values[0], Rows: values[1:]}
}

var orderHeader = []string{
	"id",
	"customerName",
	"customerPhone",
	"cakeType",
	"quantity",
	"price",
	"additionalCharges",
	"deliveryCharge",
	"grandTotal",
	"otherDetails",
	"cakeImage",
	"deliveredImage",
	"hasDelivery",
	"deliveryAddress",
	"dueDate",
	"orderDate",
	"status",
	"isEggless",
}

var customerHeader = []string{"id", "name", "phone", "email", "firstOrderDate"}

var expenseHeader = []string{"id", "description", "amount", "date", "category"}

// OrderHeader returns the current order column names.
func OrderHeader() []string { return append([]string(nil), orderHeader...) }

// CustomerHeader returns the current customer column names.
func CustomerHeader() []string { return append([]string(nil), customerHeader...) }

// ExpenseHeader returns the current expense column names.
func ExpenseHeader() []string { return append([]string(nil), expenseHeader...) }

// Tables encodes a full snapshot into the three remote tables in the
// fixed order Orders, Customers, Expenses.
func (c *Codec) Tables(snap model.Collections) []Table {
	return []Table{
		c.OrdersTable(snap.Orders),
		c.CustomersTable(snap.Customers),
		c.ExpensesTable(snap.Expenses),
	}
}
