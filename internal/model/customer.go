package model

// Customer is created the first time an order carries a phone number
// that no existing customer has. Phone is unique within the collection.
type Customer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	FirstOrderDate Date   `json:"firstOrderDate"`
}

// Equal reports whether two customers carry the same values.
func (c Customer) Equal(d Customer) bool {
	return c == d
}

// CustomerForOrder derives the customer record implied by an order's
// first appearance. The caller assigns the id.
func CustomerForOrder(id string, o Order) Customer {
	return Customer{
		ID:             id,
		Name:           o.CustomerName,
		Phone:          o.CustomerPhone,
		FirstOrderDate: o.OrderDate,
	}
}
