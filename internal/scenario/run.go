package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/cakeledger/internal/cache"
	"github.com/roach88/cakeledger/internal/codec"
	"github.com/roach88/cakeledger/internal/ident"
	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/store"
	"github.com/roach88/cakeledger/internal/testutil"
)

// Trace is the deterministic record of one run.
type Trace struct {
	Scenario string       `json:"scenario"`
	Steps    []StepResult `json:"steps"`
	Final    Final        `json:"final"`
}

// StepResult is the outcome of one flow step.
type StepResult struct {
	Step     int    `json:"step"`
	Op       string `json:"op"`
	ID       string `json:"id,omitempty"`
	Revision int64  `json:"revision"`
	Error    string `json:"error,omitempty"`
}

// Final summarizes the state after the flow. Pushed maps each table name
// to the row count of its last push.
type Final struct {
	Revision  int64          `json:"revision"`
	Orders    int            `json:"orders"`
	Customers int            `json:"customers"`
	Expenses  int            `json:"expenses"`
	Pushed    map[string]int `json:"pushed,omitempty"`
}

// Result is a finished run.
type Result struct {
	Pass   bool
	Errors []string
	Trace  Trace

	snapshot  model.Collections
	transport *testutil.RecordingTransport
	upcoming  func(n int) []model.Order
}

func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// errPersistText stands in for local commit failures in traces; the
// wrapped cause varies with the cache in use.
const errPersistText = "persist"

// Run executes sc against a fresh store backed by an in-memory cache and
// a recording transport. The returned error covers setup problems only;
// failed expectations and assertions are reported in the Result.
func Run(ctx context.Context, sc *Scenario) (*Result, error) {
	today, err := model.ParseDate(sc.Today)
	if err != nil {
		return nil, err
	}
	clock := testutil.NewFixedClock(today.Time().Add(12 * time.Hour))

	flaky := testutil.NewFlakyCache()
	if sc.Cache != nil {
		seed, err := sc.Cache.collections()
		if err != nil {
			return nil, fmt.Errorf("cache: %w", err)
		}
		if err := cache.SaveCollections(ctx, flaky, seed); err != nil {
			return nil, fmt.Errorf("seed cache: %w", err)
		}
	}

	opts := []store.Option{
		store.WithCache(flaky),
		store.WithCodec(codec.New(codec.WithImagePolicy(codec.ImagePolicy{Mode: codec.ImageInline}))),
		store.WithIDGenerator(ident.NewSequenceGenerator("id")),
		store.WithSyncTokens(testutil.FixedSyncTokens("")),
		store.WithClock(clock),
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}

	var transport *testutil.RecordingTransport
	if sc.Remote != nil {
		fetch, err := sc.Remote.collections()
		if err != nil {
			return nil, fmt.Errorf("remote: %w", err)
		}
		transport = testutil.NewRecordingTransport(fetch)
		if sc.FetchError != "" {
			transport.FailFetch(errors.New(sc.FetchError))
		}
		opts = append(opts, store.WithRemote(transport))
	}

	st := store.New(opts...)
	defer st.Close(context.Background())

	st.Load(ctx)
	if sc.CacheFails {
		flaky.FailPuts.Store(true)
	}

	result := &Result{
		Pass:      true,
		Trace:     Trace{Scenario: sc.Name, Steps: []StepResult{}},
		transport: transport,
		upcoming:  st.UpcomingOrders,
	}

	for i, step := range sc.Flow {
		id, err := apply(ctx, st, clock, step)
		sr := StepResult{Step: i + 1, Op: step.Op, ID: id, Revision: st.Revision()}
		if err != nil {
			sr.Error = err.Error()
			if errors.Is(err, store.ErrPersist) {
				sr.Error = errPersistText
			}
		}
		result.Trace.Steps = append(result.Trace.Steps, sr)
		checkExpect(result, sr, step.Expect)
	}

	if err := st.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	result.snapshot = st.Snapshot()
	result.Trace.Final = Final{
		Revision:  st.Revision(),
		Orders:    len(result.snapshot.Orders),
		Customers: len(result.snapshot.Customers),
		Expenses:  len(result.snapshot.Expenses),
	}
	if transport != nil {
		result.Trace.Final.Pushed = map[string]int{}
		for _, name := range []string{model.CollectionOrders, model.CollectionCustomers, model.CollectionExpenses} {
			if t, ok := transport.LastPush(name); ok {
				result.Trace.Final.Pushed[name] = len(t.Rows)
			}
		}
	}

	for _, a := range sc.Assertions {
		evaluate(result, a)
	}
	return result, nil
}

func checkExpect(r *Result, sr StepResult, want *Expect) {
	if want == nil {
		if sr.Error != "" {
			r.fail("step %d (%s): unexpected error: %s", sr.Step, sr.Op, sr.Error)
		}
		return
	}
	if want.ID != "" && want.ID != sr.ID {
		r.fail("step %d (%s): id = %q, want %q", sr.Step, sr.Op, sr.ID, want.ID)
	}
	switch {
	case want.Error == "" && sr.Error != "":
		r.fail("step %d (%s): unexpected error: %s", sr.Step, sr.Op, sr.Error)
	case want.Error != "" && !containsText(sr.Error, want.Error):
		r.fail("step %d (%s): error = %q, want %q", sr.Step, sr.Op, sr.Error, want.Error)
	}
}

func apply(ctx context.Context, st *store.Store, clock *testutil.FixedClock, step Step) (string, error) {
	id, _ := step.Args["id"].(string)

	switch step.Op {
	case OpAddOrder:
		var o model.Order
		if err := decode(step.Args, &o); err != nil {
			return "", err
		}
		added, err := st.AddOrder(ctx, o)
		return added.ID, err

	case OpUpdateOrder:
		o, _ := st.Order(id)
		if err := patch(&o, step.Args); err != nil {
			return "", err
		}
		return id, st.UpdateOrder(ctx, o)

	case OpSetStatus:
		status, _ := step.Args["status"].(string)
		return id, st.SetOrderStatus(ctx, id, model.Status(status))

	case OpDeleteOrder:
		return id, st.DeleteOrder(ctx, id)

	case OpAddExpense:
		var e model.Expense
		if err := decode(step.Args, &e); err != nil {
			return "", err
		}
		added, err := st.AddExpense(ctx, e)
		return added.ID, err

	case OpUpdateExpense:
		e, _ := st.Expense(id)
		if err := patch(&e, step.Args); err != nil {
			return "", err
		}
		return id, st.UpdateExpense(ctx, e)

	case OpDeleteExpense:
		return id, st.DeleteExpense(ctx, id)

	case OpUpdateCustomer:
		c, _ := st.Customer(id)
		if err := patch(&c, step.Args); err != nil {
			return "", err
		}
		return id, st.UpdateCustomer(ctx, c)

	case OpDeleteCustomer:
		return id, st.DeleteCustomer(ctx, id)

	case OpSyncNow:
		_, err := st.SyncNow()
		return "", err

	case OpAdvanceDays:
		days, _ := step.Args["days"].(int)
		clock.Advance(time.Duration(days) * 24 * time.Hour)
		return "", nil
	}
	return "", fmt.Errorf("unknown op %q", step.Op)
}

// decode converts a YAML record to a model value through its JSON form.
func decode(record map[string]any, v any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

// patch overlays fields on v, keeping the fields args does not name.
func patch(v any, fields map[string]any) error {
	current, err := toMap(v)
	if err != nil {
		return err
	}
	for k, val := range fields {
		current[k] = val
	}
	return decode(current, v)
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Records) collections() (model.Collections, error) {
	var c model.Collections
	if err := decodeAll(r.Orders, &c.Orders); err != nil {
		return c, fmt.Errorf("orders: %w", err)
	}
	if err := decodeAll(r.Customers, &c.Customers); err != nil {
		return c, fmt.Errorf("customers: %w", err)
	}
	if err := decodeAll(r.Expenses, &c.Expenses); err != nil {
		return c, fmt.Errorf("expenses: %w", err)
	}
	return c, nil
}

func decodeAll[T any](records []map[string]any, out *[]T) error {
	for i, rec := range records {
		var v T
		if err := decode(rec, &v); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		*out = append(*out, v)
	}
	return nil
}
