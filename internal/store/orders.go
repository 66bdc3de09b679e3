package store

import (
	"context"
	"slices"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/model"
)

// AddOrder assigns a new id to o, appends it, and returns the stored
// order. Any caller-supplied id is replaced. An empty status becomes
// pending and a zero order date becomes today.
//
// If the order carries a phone number no customer has yet, a customer is
// created from it (first order date = the order's date) before the push
// is scheduled, so the push includes the new customer.
func (s *Store) AddOrder(ctx context.Context, o model.Order) (model.Order, error) {
	if s.closed.Load() {
		return model.Order{}, ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.ids.NewID()
	if o.Status == "" {
		o.Status = model.StatusPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = model.DateOf(s.clock.Now())
	}

	s.orders.Next(append(s.orders.Value(), o))
	keys := []string{cache.KeyOrders}

	if o.CustomerPhone != "" {
		customers := s.customers.Value()
		if model.FindCustomerByPhone(customers, o.CustomerPhone) < 0 {
			c := model.CustomerForOrder(s.ids.NewID(), o)
			s.customers.Next(append(customers, c))
			keys = append(keys, cache.KeyCustomers)
			s.logger.Info("customer created", "customer_id", c.ID, "order_id", o.ID)
		}
	}

	return o, s.commit(ctx, "add order", keys...)
}

// UpdateOrder replaces the order with o's id. An unknown id is a silent
// no-op: nothing is published, cached or pushed.
func (s *Store) UpdateOrder(ctx context.Context, o model.Order) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders.Value()
	i := model.FindOrder(orders, o.ID)
	if i < 0 {
		s.logger.Debug("update ignored: unknown order", "order_id", o.ID)
		return nil
	}
	orders[i] = o
	s.orders.Next(orders)

	return s.commit(ctx, "update order", cache.KeyOrders)
}

// SetOrderStatus changes one order's status. Unknown ids are a no-op.
func (s *Store) SetOrderStatus(ctx context.Context, id string, status model.Status) error {
	o, ok := s.Order(id)
	if !ok {
		return nil
	}
	o.Status = status
	return s.UpdateOrder(ctx, o)
}

// DeleteOrder removes the order with id. An unknown id is a silent no-op.
// The customer created from the order, if any, is kept.
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders.Value()
	i := model.FindOrder(orders, id)
	if i < 0 {
		s.logger.Debug("delete ignored: unknown order", "order_id", id)
		return nil
	}
	s.orders.Next(slices.Delete(orders, i, i+1))

	return s.commit(ctx, "delete order", cache.KeyOrders)
}
