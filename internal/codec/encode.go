package codec

import (
	"strconv"

	"github.com/roach88/cakeledger/internal/model"
)

// EncodeOrder returns the row for o in OrderHeader order. grandTotal is
// written for readers of the sheet and ignored when decoding.
func (c *Codec) EncodeOrder(o model.Order) []string {
	status := o.Status
	if status == "" {
		status = model.StatusPending
	}
	return []string{
		o.ID,
		o.CustomerName,
		o.CustomerPhone,
		o.CakeType,
		strconv.Itoa(o.Quantity),
		o.Price.String(),
		o.AdditionalCharges.String(),
		o.DeliveryCharge.String(),
		o.GrandTotal().String(),
		o.OtherDetails,
		c.images.encode(o.CakeImage),
		c.images.encode(o.DeliveredImage),
		strconv.FormatBool(o.HasDelivery),
		o.DeliveryAddress,
		o.DueDate.String(),
		o.OrderDate.String(),
		string(status),
		strconv.FormatBool(o.IsEggless),
	}
}

// EncodeCustomer returns the row for cu in CustomerHeader order.
func (c *Codec) EncodeCustomer(cu model.Customer) []string {
	return []string{
		cu.ID,
		cu.Name,
		cu.Phone,
		cu.Email,
		cu.FirstOrderDate.String(),
	}
}

// EncodeExpense returns the row for e in ExpenseHeader order.
func (c *Codec) EncodeExpense(e model.Expense) []string {
	return []string{
		e.ID,
		e.Description,
		e.Amount.String(),
		e.Date.String(),
		e.Category,
	}
}

// OrdersTable encodes a full order collection.
func (c *Codec) OrdersTable(orders []model.Order) Table {
	return encodeTable(model.CollectionOrders, OrderHeader(), orders, c.EncodeOrder)
}

// CustomersTable encodes a full customer collection.
func (c *Codec) CustomersTable(customers []model.Customer) Table {
	return encodeTable(model.CollectionCustomers, CustomerHeader(), customers, c.EncodeCustomer)
}

// ExpensesTable encodes a full expense collection.
func (c *Codec) ExpensesTable(expenses []model.Expense) Table {
	return encodeTable(model.CollectionExpenses, ExpenseHeader(), expenses, c.EncodeExpense)
}

func encodeTable[T any](name string, header []string, items []T, encode func(T) []string) Table {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, encode(item))
	}
	return Table{Name: name, Header: header, Rows: rows}
}
