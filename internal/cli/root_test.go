package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/report"
	"github.com/roach88/cakeledger/internal/testutil"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "cakeledger", cmd.Use)
	assert.Contains(t, cmd.Long, "spreadsheet")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"sync"},
		{"orders", "list"}, {"orders", "show"}, {"orders", "add"},
		{"orders", "update"}, {"orders", "status"}, {"orders", "delete"},
		{"expenses", "list"}, {"expenses", "add"}, {"expenses", "update"}, {"expenses", "delete"},
		{"customers", "list"}, {"customers", "update"}, {"customers", "delete"},
		{"report"}, {"upcoming"}, {"export"}, {"seed"},
	}

	for _, path := range commands {
		t.Run(filepath.Join(path...), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("offline"))
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
}

// harness runs CLI invocations against one SQLite cache file, a fixed
// clock and a recording transport whose fetch fails, so every run starts
// from the local cache.
type harness struct {
	t         *testing.T
	config    string
	transport *testutil.RecordingTransport
	clock     *testutil.FixedClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cakeledger.yaml")
	body := "cache:\n  driver: sqlite\n  path: " + filepath.Join(dir, "cache.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o644))

	tr := testutil.NewRecordingTransport(model.Collections{})
	tr.FailFetch(errors.New("remote unreachable"))

	return &harness{
		t:         t,
		config:    cfg,
		transport: tr,
		clock:     testutil.NewFixedClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)),
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	opts := &RootOptions{Transport: h.transport, Clock: h.clock}
	cmd := newRootCommand(opts)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", h.config, "--format", "json"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// data runs args, requires success, and decodes the response payload.
func (h *harness) data(v any, args ...string) {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, out)

	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(out), &resp), out)
	require.Equal(h.t, "ok", resp.Status)
	if v != nil {
		require.NoError(h.t, json.Unmarshal(resp.Data, v))
	}
}

func addCake(h *harness, extra ...string) model.Order {
	args := append([]string{"orders", "add",
		"--customer", "Asha Rao",
		"--phone", "5550101234",
		"--cake", "Red Velvet",
		"--price", "40",
		"--due", "2024-03-12",
	}, extra...)
	var o model.Order
	h.data(&o, args...)
	return o
}

func TestOrders_AddListShow(t *testing.T) {
	h := newHarness(t)

	added := addCake(h, "--delivery-charge", "5", "--address", "4 Lake Rd", "--eggless")
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, model.StatusPending, added.Status)
	assert.Equal(t, "2024-03-10", added.OrderDate.String())
	assert.True(t, added.HasDelivery)
	assert.True(t, added.GrandTotal().Equal(decimal.NewFromInt(45)))

	var listed []model.Order
	h.data(&listed, "orders", "list")
	require.Len(t, listed, 1)
	assert.Equal(t, added.ID, listed[0].ID)

	var shown model.Order
	h.data(&shown, "orders", "show", added.ID)
	assert.True(t, added.Equal(shown))

	var customers []model.Customer
	h.data(&customers, "customers", "list")
	require.Len(t, customers, 1)
	assert.Equal(t, "5550101234", customers[0].Phone)

	orders, ok := h.transport.LastPush(model.CollectionOrders)
	require.True(t, ok, "add pushes before the command exits")
	assert.Len(t, orders.Rows, 1)
}

func TestOrders_AddRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("orders", "add", "--customer", "Asha", "--price", "40", "--due", "2024-03-12", "--quantity", "0")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, Reported(err))
	assert.Contains(t, out, `"status":"error"`)
	assert.Contains(t, out, "cakeType")
	assert.Contains(t, out, "quantity")

	var listed []model.Order
	h.data(&listed, "orders", "list")
	assert.Empty(t, listed)
}

func TestOrders_AddTrimsTextFlags(t *testing.T) {
	h := newHarness(t)

	var padded model.Order
	h.data(&padded, "orders", "add",
		"--customer", "Asha Rao ",
		"--phone", " 5550101234",
		"--cake", " Red Velvet",
		"--price", "40",
		"--due", "2024-03-12",
	)
	assert.Equal(t, "Asha Rao", padded.CustomerName)
	assert.Equal(t, "5550101234", padded.CustomerPhone)
	assert.Equal(t, "Red Velvet", padded.CakeType)

	addCake(h)

	var customers []model.Customer
	h.data(&customers, "customers", "list")
	require.Len(t, customers, 1, "both orders carry the same phone")
	assert.Equal(t, "Asha Rao", customers[0].Name)
}

func TestOrders_BadAmountIsCommandError(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("orders", "add", "--customer", "A", "--cake", "B", "--price", "forty", "--due", "2024-03-12")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestOrders_UpdateStatusDelete(t *testing.T) {
	h := newHarness(t)
	added := addCake(h)

	var updated model.Order
	h.data(&updated, "orders", "update", added.ID, "--quantity", "3", "--details", "Happy birthday")
	assert.Equal(t, 3, updated.Quantity)
	assert.Equal(t, "Happy birthday", updated.OtherDetails)
	assert.Equal(t, "Red Velvet", updated.CakeType, "untouched fields are kept")

	var delivered model.Order
	h.data(&delivered, "orders", "status", added.ID, "delivered")
	assert.Equal(t, model.StatusDelivered, delivered.Status)

	var upcoming []model.Order
	h.data(&upcoming, "upcoming")
	assert.Empty(t, upcoming, "delivered orders are not upcoming")

	h.data(nil, "orders", "delete", added.ID)
	_, err := h.run("orders", "show", added.ID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestOrders_StatusRejectsUnknown(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("orders", "status", "x", "baked")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExpensesAndReport(t *testing.T) {
	h := newHarness(t)
	addCake(h, "--additional", "2.50")

	var added []model.Expense
	h.data(&added, "expenses", "add", "--description", "Flour", "--amount", "12.50", "--category", "Ingredients")
	require.Len(t, added, 1)
	assert.Equal(t, "2024-03-10", added[0].Date.String())

	h.data(nil, "expenses", "add", "--description", "Boxes", "--amount", "4", "--date", "2024-02-20", "--category", "Packaging")

	var march []model.Expense
	h.data(&march, "expenses", "list", "--month", "2024-03")
	assert.Len(t, march, 1)

	var summary report.Summary
	h.data(&summary, "report", "--month", "2024-03")
	assert.True(t, summary.Revenue.Equal(decimal.RequireFromString("42.5")))
	assert.True(t, summary.Expenses.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, summary.NetProfit.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, 1, summary.Orders)
	assert.Equal(t, 1, summary.NewCustomers)

	var updated []model.Expense
	h.data(&updated, "expenses", "update", added[0].ID, "--amount", "10")
	assert.True(t, updated[0].Amount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Flour", updated[0].Description)

	_, err := h.run("expenses", "add", "--description", "Nothing", "--amount", "0")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCustomers_UpdateAndDelete(t *testing.T) {
	h := newHarness(t)
	addCake(h)

	var customers []model.Customer
	h.data(&customers, "customers", "list")
	require.Len(t, customers, 1)

	var updated []model.Customer
	h.data(&updated, "customers", "update", customers[0].ID, "--email", "asha@example.com")
	assert.Equal(t, "asha@example.com", updated[0].Email)
	assert.Equal(t, "Asha Rao", updated[0].Name)

	h.data(nil, "customers", "delete", customers[0].ID)
	h.data(&customers, "customers", "list")
	assert.Empty(t, customers)

	var orders []model.Order
	h.data(&orders, "orders", "list")
	assert.Len(t, orders, 1, "deleting a customer keeps their orders")
}

func TestSync_FetchesRemoteAndCaches(t *testing.T) {
	h := newHarness(t)
	h.transport = testutil.NewRecordingTransport(model.Collections{
		Orders: []model.Order{{
			ID: "r-1", CustomerName: "Lina", CakeType: "Mango", Quantity: 1,
			Price: decimal.NewFromInt(30), DueDate: model.MustParseDate("2024-03-15"),
			OrderDate: model.MustParseDate("2024-03-08"), Status: model.StatusReady,
		}},
	})

	var result syncResult
	h.data(&result, "sync", "--push")
	assert.True(t, result.Remote)
	assert.Equal(t, 1, result.Orders)
	assert.NotEmpty(t, result.PushToken)

	pushed, ok := h.transport.LastPush(model.CollectionOrders)
	require.True(t, ok)
	assert.Len(t, pushed.Rows, 1)

	// The fetched data is cached, so a later run with an unreachable
	// remote still sees it.
	h.transport = testutil.NewRecordingTransport(model.Collections{})
	h.transport.FailFetch(errors.New("remote unreachable"))
	var orders []model.Order
	h.data(&orders, "orders", "list")
	require.Len(t, orders, 1)
	assert.Equal(t, "r-1", orders[0].ID)
}

func TestExport_WritesFiles(t *testing.T) {
	h := newHarness(t)
	addCake(h)
	dir := filepath.Join(t.TempDir(), "out")

	var result exportResult
	h.data(&result, "export", "--to", "csv", "--dir", dir)
	assert.Equal(t, "csv", result.Format)
	require.Len(t, result.Files, 3)
	for _, f := range result.Files {
		assert.FileExists(t, f)
	}

	_, err := h.run("export", "--to", "pdf")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSeed_AddsDemoData(t *testing.T) {
	h := newHarness(t)

	var result seedResult
	h.data(&result, "seed", "--orders", "6", "--expenses", "4", "--seed", "7")
	assert.Equal(t, 6, result.Orders)

	var orders []model.Order
	h.data(&orders, "orders", "list")
	assert.Len(t, orders, 6)

	var expenses []model.Expense
	h.data(&expenses, "expenses", "list")
	assert.Len(t, expenses, 4)
}

func TestInvalidFormatIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "orders", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid format")
}

func TestMissingConfigIsCommandError(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "orders", "list"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
