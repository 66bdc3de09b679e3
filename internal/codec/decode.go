package codec

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/cakeledger/internal/model"
)

// DecodeOrders decodes data rows against header. Rows that lack an id,
// customer name or cake type are dropped; their 0-based data row indexes
// are returned in skipped.
func DecodeOrders(header []string, rows [][]string) (orders []model.Order, skipped []int) {
	return decodeTable(indexColumns(model.CollectionOrders, header), rows, decodeOrder)
}

// DecodeCustomers decodes data rows against header. Rows that lack an id
// or name are dropped.
func DecodeCustomers(header []string, rows [][]string) (customers []model.Customer, skipped []int) {
	return decodeTable(indexColumns(model.CollectionCustomers, header), rows, decodeCustomer)
}

// DecodeExpenses decodes data rows against header. Rows that lack an id
// or description are dropped.
func DecodeExpenses(header []string, rows [][]string) (expenses []model.Expense, skipped []int) {
	return decodeTable(indexColumns(model.CollectionExpenses, header), rows, decodeExpense)
}

func decodeTable[T any](cols columns, rows [][]string, decode func(columns, []string) (T, bool)) ([]T, []int) {
	items := make([]T, 0, len(rows))
	var skipped []int
	for i, row := range rows {
		item, ok := decode(cols, row)
		if !ok {
			skipped = append(skipped, i)
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

func decodeOrder(cols columns, row []string) (model.Order, bool) {
	o := model.Order{
		ID:                cols.cell(row, "id"),
		CustomerName:      cols.cell(row, "customerName"),
		CustomerPhone:     cols.cell(row, "customerPhone"),
		CakeType:          cols.cell(row, "cakeType"),
		Quantity:          parseQuantity(cols.cell(row, "quantity")),
		Price:             parseAmount(cols.cell(row, "price")),
		AdditionalCharges: parseAmount(cols.cell(row, "additionalCharges")),
		DeliveryCharge:    parseAmount(cols.cell(row, "deliveryCharge")),
		OtherDetails:      cols.raw(row, "otherDetails"),
		CakeImage:         decodeImage(cols.raw(row, "cakeImage")),
		DeliveredImage:    decodeImage(cols.raw(row, "deliveredImage")),
		HasDelivery:       parseBool(cols.cell(row, "hasDelivery")),
		DeliveryAddress:   cols.raw(row, "deliveryAddress"),
		DueDate:           parseDate(cols.cell(row, "dueDate")),
		OrderDate:         parseDate(cols.cell(row, "orderDate")),
		Status:            parseStatus(cols.cell(row, "status")),
		IsEggless:         parseBool(cols.cell(row, "isEggless")),
	}
	if o.ID == "" || o.CustomerName == "" || o.CakeType == "" {
		return model.Order{}, false
	}
	return o, true
}

func decodeCustomer(cols columns, row []string) (model.Customer, bool) {
	c := model.Customer{
		ID:             cols.cell(row, "id"),
		Name:           cols.cell(row, "name"),
		Phone:          cols.cell(row, "phone"),
		Email:          cols.cell(row, "email"),
		FirstOrderDate: parseDate(cols.cell(row, "firstOrderDate")),
	}
	if c.ID == "" || c.Name == "" {
		return model.Customer{}, false
	}
	return c, true
}

func decodeExpense(cols columns, row []string) (model.Expense, bool) {
	e := model.Expense{
		ID:          cols.cell(row, "id"),
		Description: cols.cell(row, "description"),
		Amount:      parseAmount(cols.cell(row, "amount")),
		Date:        parseDate(cols.cell(row, "date")),
		Category:    cols.cell(row, "category"),
	}
	if e.ID == "" || e.Description == "" {
		return model.Expense{}, false
	}
	return e, true
}

// parseAmount returns 0 for empty or invalid text.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// parseQuantity returns 1 for empty, invalid or zero text. Fractional
// text is truncated.
func parseQuantity(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		d, derr := decimal.NewFromString(s)
		if derr != nil {
			return 1
		}
		n = int(d.IntPart())
	}
	if n == 0 {
		return 1
	}
	return n
}

func parseBool(s string) bool {
	return s == "true"
}

// parseDate returns the zero Date for text it cannot read.
func parseDate(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}
	}
	return d
}

func parseStatus(s string) model.Status {
	if s == "" {
		return model.StatusPending
	}
	return model.Status(strings.ToLower(s))
}
