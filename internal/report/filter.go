package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/cakeledger/internal/model"
)

// SortOrder names an order list ordering.
type SortOrder string

const (
	SortDateDesc  SortOrder = "date-desc"
	SortDateAsc   SortOrder = "date-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortPriceAsc  SortOrder = "price-asc"
)

// ParseSortOrder accepts the SortOrder names; empty means SortDateDesc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortDateDesc, nil
	case SortDateDesc, SortDateAsc, SortPriceDesc, SortPriceAsc:
		return SortOrder(s), nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// OrderFilter narrows and orders an order list.
type OrderFilter struct {
	// Search matches customer name or cake type case-insensitively, or a
	// substring of the phone number.
	Search string
	// Status keeps only orders with this status. Empty keeps all.
	Status model.Status
	Sort   SortOrder
}

// FilterOrders returns a new slice of the orders matching f, sorted by
// f.Sort. Ties keep collection order.
func FilterOrders(orders []model.Order, f OrderFilter) []model.Order {
	term := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if term != "" && !matches(o, term) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		out = append(out, o)
	}

	var less func(a, b model.Order) bool
	switch f.Sort {
	case SortDateAsc:
		less = func(a, b model.Order) bool { return a.OrderDate.Before(b.OrderDate) }
	case SortPriceDesc:
		less = func(a, b model.Order) bool { return a.Price.GreaterThan(b.Price) }
	case SortPriceAsc:
		less = func(a, b model.Order) bool { return a.Price.LessThan(b.Price) }
	default:
		less = func(a, b model.Order) bool { return b.OrderDate.Before(a.OrderDate) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func matches(o model.Order, term string) bool {
	return strings.Contains(strings.ToLower(o.CustomerName), term) ||
		strings.Contains(strings.ToLower(o.CakeType), term) ||
		(o.CustomerPhone != "" && strings.Contains(o.CustomerPhone, term))
}
