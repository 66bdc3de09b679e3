package model

import "slices"

// Collection names, shared by the remote tables and the local cache.
const (
	CollectionOrders    = "Orders"
	CollectionCustomers = "Customers"
	CollectionExpenses  = "Expenses"
)

// Collections is one snapshot of all three collections.
type Collections struct {
	Orders    []Order    `json:"orders"`
	Customers []Customer `json:"customers"`
	Expenses  []Expense  `json:"expenses"`
}

// Clone returns a copy that shares no slice storage with c.
func (c Collections) Clone() Collections {
	return Collections{
		Orders:    slices.Clone(c.Orders),
		Customers: slices.Clone(c.Customers),
		Expenses:  slices.Clone(c.Expenses),
	}
}

// FindOrder returns the index of the order with the given id, or -1.
func FindOrder(orders []Order, id string) int {
	return slices.IndexFunc(orders, func(o Order) bool { return o.ID == id })
}

// FindCustomer returns the index of the customer with the given id, or -1.
func FindCustomer(customers []Customer, id string) int {
	return slices.IndexFunc(customers, func(c Customer) bool { return c.ID == id })
}

// FindCustomerByPhone returns the index of the customer with the given phone, or -1.
func FindCustomerByPhone(customers []Customer, phone string) int {
	return slices.IndexFunc(customers, func(c Customer) bool { return c.Phone == phone })
}

// FindExpense returns the index of the expense with the given id, or -1.
func FindExpense(expenses []Expense, id string) int {
	return slices.IndexFunc(expenses, func(e Expense) bool { return e.ID == id })
}
