package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/cakeledger/internal/model"
)

// Cache keys, one per collection.
const (
	KeyOrders    = "orders"
	KeyCustomers = "customers"
	KeyExpenses  = "expenses"
)

// Cache stores opaque values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
	// Close releases the backend.
	Close() error
}

// Stamped is implemented by caches that record when each key was last
// written.
type Stamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, bool, error)
}

// LastWrite returns the newest write time among the collection keys.
// ok is false when c keeps no timestamps or holds none of the keys.
func LastWrite(ctx context.Context, c Cache) (at time.Time, ok bool) {
	s, stamped := c.(Stamped)
	if !stamped {
		return time.Time{}, false
	}
	for _, key := range []string{KeyOrders, KeyCustomers, KeyExpenses} {
		t, found, err := s.UpdatedAt(ctx, key)
		if err != nil || !found {
			continue
		}
		if !ok || t.After(at) {
			at, ok = t, true
		}
	}
	return at, ok
}

// Load decodes the JSON collection stored under key.
// An absent key yields an empty (nil) slice and no error.
func Load[T any](ctx context.Context, c Cache, key string) ([]T, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok || len(data) == 0 {
		return nil, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("load %s: decode: %w", key, err)
	}
	return items, nil
}

// Save encodes items as JSON and stores them under key.
func Save[T any](ctx context.Context, c Cache, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("save %s: encode: %w", key, err)
	}
	if err := c.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadCollections reads all three collections. It keeps going past a
// broken collection so one corrupt entry does not hide the others; the
// first error is returned alongside whatever was readable.
func LoadCollections(ctx context.Context, c Cache) (model.Collections, error) {
	var out model.Collections
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	orders, err := Load[model.Order](ctx, c, KeyOrders)
	keep(err)
	customers, err := Load[model.Customer](ctx, c, KeyCustomers)
	keep(err)
	expenses, err := Load[model.Expense](ctx, c, KeyExpenses)
	keep(err)

	out.Orders = orders
	out.Customers = customers
	out.Expenses = expenses
	return out, firstErr
}

// SaveCollections writes all three collections.
func SaveCollections(ctx context.Context, c Cache, snap model.Collections) error {
	if err := Save(ctx, c, KeyOrders, snap.Orders); err != nil {
		return err
	}
	if err := Save(ctx, c, KeyCustomers, snap.Customers); err != nil {
		return err
	}
	return Save(ctx, c, KeyExpenses, snap.Expenses)
}
