package scenario

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/report"
)

func evaluate(r *Result, a Assertion) {
	switch a.Type {
	case AssertCount:
		if got := countOf(r.snapshot, a.Collection); got != a.Count {
			r.fail("count %s: got %d, want %d", a.Collection, got, a.Count)
		}

	case AssertRecord:
		rec, ok := recordOf(r.snapshot, a.Collection, a.ID)
		if !ok {
			r.fail("record %s/%s: not found", a.Collection, a.ID)
			return
		}
		fields, err := toMap(rec)
		if err != nil {
			r.fail("record %s/%s: %v", a.Collection, a.ID, err)
			return
		}
		compareFields(r, fmt.Sprintf("record %s/%s", a.Collection, a.ID), fields, a.Expect)

	case AssertAbsent:
		if _, ok := recordOf(r.snapshot, a.Collection, a.ID); ok {
			r.fail("absent %s/%s: record present", a.Collection, a.ID)
		}

	case AssertPushed:
		if r.transport == nil {
			r.fail("pushed %s: scenario has no remote", a.Collection)
			return
		}
		t, ok := r.transport.LastPush(a.Collection)
		if !ok {
			r.fail("pushed %s: never pushed", a.Collection)
			return
		}
		if len(t.Rows) != a.Count {
			r.fail("pushed %s: got %d rows, want %d", a.Collection, len(t.Rows), a.Count)
		}

	case AssertUpcoming:
		var got []string
		for _, o := range r.upcoming(a.N) {
			got = append(got, o.ID)
		}
		if !slices.Equal(got, a.IDs) {
			r.fail("upcoming %d: got %v, want %v", a.N, got, a.IDs)
		}

	case AssertSummary:
		year, month, _ := parseMonth(a.Month)
		fields, err := toMap(report.MonthSummary(r.snapshot, year, month))
		if err != nil {
			r.fail("summary %s: %v", a.Month, err)
			return
		}
		compareFields(r, "summary "+a.Month, fields, a.Expect)
	}
}

// compareFields is a subset match on text renderings, so YAML numbers
// compare equal to decimal strings.
func compareFields(r *Result, label string, got, want map[string]any) {
	keys := make([]string, 0, len(want))
	for k := range want {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		g := got[k]
		if text(g) != text(want[k]) {
			r.fail("%s: %s = %v, want %v", label, k, text(g), text(want[k]))
		}
	}
}

func text(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func containsText(s, sub string) bool {
	return strings.Contains(s, sub)
}

func countOf(c model.Collections, collection string) int {
	switch collection {
	case model.CollectionOrders:
		return len(c.Orders)
	case model.CollectionCustomers:
		return len(c.Customers)
	default:
		return len(c.Expenses)
	}
}

func recordOf(c model.Collections, collection, id string) (any, bool) {
	switch collection {
	case model.CollectionOrders:
		if i := model.FindOrder(c.Orders, id); i >= 0 {
			return c.Orders[i], true
		}
	case model.CollectionCustomers:
		if i := model.FindCustomer(c.Customers, id); i >= 0 {
			return c.Customers[i], true
		}
	case model.CollectionExpenses:
		if i := model.FindExpense(c.Expenses, id); i >= 0 {
			return c.Expenses[i], true
		}
	}
	return nil, false
}

func parseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("month %q: want YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}
