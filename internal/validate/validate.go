// Package validate checks user-entered orders and expenses before they
// reach the store. The store itself assumes valid input.
//
// Constraints live in an embedded CUE schema (schema.cue) so they can be
// read and changed without touching Go code.
package validate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/cakeledger/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// FieldError is one violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every field that failed validation.
type Error struct {
	Kind   string       `json:"kind"`
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Kind, strings.Join(parts, "; "))
}

// Has reports whether field is among the failures.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Validator holds the compiled schema.
//
// Thread-safety: safe for concurrent use; evaluations are serialized
// because a cue.Context is not.
type Validator struct {
	mu      sync.Mutex
	ctx     *cue.Context
	order   cue.Value
	expense cue.Value
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{
		ctx:     ctx,
		order:   schema.LookupPath(cue.ParsePath("#Order")),
		expense: schema.LookupPath(cue.ParsePath("#Expense")),
	}, nil
}

// Order checks o. It returns nil or an *Error. Text fields are checked
// as given: surrounding whitespace is a violation, not something to trim.
func (v *Validator) Order(o model.Order) error {
	return v.check("order", v.order, map[string]any{
		"customerName":      o.CustomerName,
		"customerPhone":     o.CustomerPhone,
		"cakeType":          o.CakeType,
		"quantity":          o.Quantity,
		"price":             o.Price.InexactFloat64(),
		"additionalCharges": o.AdditionalCharges.InexactFloat64(),
		"deliveryCharge":    o.DeliveryCharge.InexactFloat64(),
		"hasDelivery":       o.HasDelivery,
		"deliveryAddress":   o.DeliveryAddress,
		"dueDate":           o.DueDate.String(),
		"orderDate":         o.OrderDate.String(),
		"status":            string(o.Status),
		"isEggless":         o.IsEggless,
	})
}

// Expense checks e. It returns nil or an *Error.
func (v *Validator) Expense(e model.Expense) error {
	return v.check("expense", v.expense, map[string]any{
		"description": e.Description,
		"amount":      e.Amount.InexactFloat64(),
		"date":        e.Date.String(),
		"category":    e.Category,
	})
}

func (v *Validator) check(kind string, schema cue.Value, fields map[string]any) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	unified := schema.Unify(v.ctx.Encode(fields))
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Fields: fieldErrors(err)}
}

// fieldErrors flattens a CUE error list to one entry per field, sorted by
// field name.
func fieldErrors(err error) []FieldError {
	seen := make(map[string]bool)
	var out []FieldError
	for _, e := range errors.Errors(err) {
		field := "record"
		if path := e.Path(); len(path) > 0 {
			field = path[len(path)-1]
		}
		if seen[field] {
			continue
		}
		seen[field] = true
		format, args := e.Msg()
		out = append(out, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}
