package model

import (
	"github.com/shopspring/decimal"
)

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusReady      Status = "ready"
	StatusDelivered  Status = "delivered"
)

// Statuses lists every known status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusReady, StatusDelivered}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order is a single cake order.
//
// CakeImage and DeliveredImage hold opaque image references: an inline
// payload (data URL), an external locator, or "" when absent. They are
// never interpreted here.
type Order struct {
	ID                string          `json:"id"`
	CustomerName      string          `json:"customerName"`
	CustomerPhone     string          `json:"customerPhone,omitempty"`
	CakeType          string          `json:"cakeType"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	AdditionalCharges decimal.Decimal `json:"additionalCharges"`
	DeliveryCharge    decimal.Decimal `json:"deliveryCharge"`
	OtherDetails      string          `json:"otherDetails,omitempty"`
	CakeImage         string          `json:"cakeImage,omitempty"`
	DeliveredImage    string          `json:"deliveredImage,omitempty"`
	HasDelivery       bool            `json:"hasDelivery"`
	DeliveryAddress   string          `json:"deliveryAddress,omitempty"`
	DueDate           Date            `json:"dueDate"`
	OrderDate         Date            `json:"orderDate"`
	Status            Status          `json:"status"`
	IsEggless         bool            `json:"isEggless"`
}

// GrandTotal is price + additional charges + delivery charge.
// It is always derived and never stored.
func (o Order) GrandTotal() decimal.Decimal {
	return o.Price.Add(o.AdditionalCharges).Add(o.DeliveryCharge)
}

// Equal reports whether two orders carry the same values.
func (o Order) Equal(p Order) bool {
	return o.ID == p.ID &&
		o.CustomerName == p.CustomerName &&
		o.CustomerPhone == p.CustomerPhone &&
		o.CakeType == p.CakeType &&
		o.Quantity == p.Quantity &&
		o.Price.Equal(p.Price) &&
		o.AdditionalCharges.Equal(p.AdditionalCharges) &&
		o.DeliveryCharge.Equal(p.DeliveryCharge) &&
		o.OtherDetails == p.OtherDetails &&
		o.CakeImage == p.CakeImage &&
		o.DeliveredImage == p.DeliveredImage &&
		o.HasDelivery == p.HasDelivery &&
		o.DeliveryAddress == p.DeliveryAddress &&
		o.DueDate == p.DueDate &&
		o.OrderDate == p.OrderDate &&
		o.Status == p.Status &&
		o.IsEggless == p.IsEggless
}
