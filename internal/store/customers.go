package store

import (
	"context"
	"slices"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/model"
)

// Customers are only ever created by AddOrder. They can be edited and
// removed like the other collections.

// UpdateCustomer replaces the customer with c's id; unknown ids are a
// no-op. A phone change that collides with another customer's phone is
// ignored too, keeping phone unique.
func (s *Store) UpdateCustomer(ctx context.Context, c model.Customer) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := s.customers.Value()
	i := model.FindCustomer(customers, c.ID)
	if i < 0 {
		s.logger.Debug("update ignored: unknown customer", "customer_id", c.ID)
		return nil
	}
	if c.Phone != "" {
		if j := model.FindCustomerByPhone(customers, c.Phone); j >= 0 && j != i {
			s.logger.Warn("update ignored: phone belongs to another customer",
				"customer_id", c.ID,
				"other_id", customers[j].ID,
			)
			return nil
		}
	}
	customers[i] = c
	s.customers.Next(customers)

	return s.commit(ctx, "update customer", cache.KeyCustomers)
}

// DeleteCustomer removes the customer with id; unknown ids are a no-op.
// Orders carrying the customer's phone are untouched.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	customers := s.customers.Value()
	i := model.FindCustomer(customers, id)
	if i < 0 {
		s.logger.Debug("delete ignored: unknown customer", "customer_id", id)
		return nil
	}
	s.customers.Next(slices.Delete(customers, i, i+1))

	return s.commit(ctx, "delete customer", cache.KeyCustomers)
}
