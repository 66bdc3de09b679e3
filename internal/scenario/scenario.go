package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/cakeledger/internal/model"
)

// Scenario is one replayable store session.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Today is the wall-clock day, YYYY-MM-DD.
	Today string `yaml:"today"`

	Cache  *Records `yaml:"cache,omitempty"`
	Remote *Records `yaml:"remote,omitempty"`

	// FetchError makes the remote fetch fail. Requires Remote.
	FetchError string `yaml:"fetch_error,omitempty"`

	// CacheFails makes every cache write after startup fail.
	CacheFails bool `yaml:"cache_fails,omitempty"`

	Flow       []Step      `yaml:"flow"`
	Assertions []Assertion `yaml:"assertions"`
}

// Records holds raw records per collection.
type Records struct {
	Orders    []map[string]any `yaml:"orders,omitempty"`
	Customers []map[string]any `yaml:"customers,omitempty"`
	Expenses  []map[string]any `yaml:"expenses,omitempty"`
}

// Step is one store operation.
type Step struct {
	Op     string         `yaml:"op"`
	Args   map[string]any `yaml:"args,omitempty"`
	Expect *Expect        `yaml:"expect,omitempty"`
}

// Expect checks a step's outcome. An empty Error means the step must
// succeed; "persist" matches a failed local commit; any other text must
// appear in the error message.
type Expect struct {
	ID    string `yaml:"id,omitempty"`
	Error string `yaml:"error,omitempty"`
}

// Step operations.
const (
	OpAddOrder       = "add_order"
	OpUpdateOrder    = "update_order"
	OpSetStatus      = "set_status"
	OpDeleteOrder    = "delete_order"
	OpAddExpense     = "add_expense"
	OpUpdateExpense  = "update_expense"
	OpDeleteExpense  = "delete_expense"
	OpUpdateCustomer = "update_customer"
	OpDeleteCustomer = "delete_customer"
	OpSyncNow        = "sync_now"
	OpAdvanceDays    = "advance_days"
)

var knownOps = map[string]bool{
	OpAddOrder: true, OpUpdateOrder: true, OpSetStatus: true, OpDeleteOrder: true,
	OpAddExpense: true, OpUpdateExpense: true, OpDeleteExpense: true,
	OpUpdateCustomer: true, OpDeleteCustomer: true,
	OpSyncNow: true, OpAdvanceDays: true,
}

// Assertion checks the state after the flow.
type Assertion struct {
	// Type is one of count, record, absent, pushed, upcoming, summary.
	Type string `yaml:"type"`

	Collection string         `yaml:"collection,omitempty"`
	ID         string         `yaml:"id,omitempty"`
	Count      int            `yaml:"count,omitempty"`
	Expect     map[string]any `yaml:"expect,omitempty"`

	// N and IDs are used by upcoming.
	N   int      `yaml:"n,omitempty"`
	IDs []string `yaml:"ids,omitempty"`

	// Month is YYYY-MM, used by summary.
	Month string `yaml:"month,omitempty"`
}

// Assertion types.
const (
	AssertCount    = "count"
	AssertRecord   = "record"
	AssertAbsent   = "absent"
	AssertPushed   = "pushed"
	AssertUpcoming = "upcoming"
	AssertSummary  = "summary"
)

// Load reads and validates a scenario file. Unknown YAML fields are
// rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Today == "" {
		return fmt.Errorf("today is required")
	}
	if _, err := model.ParseDate(s.Today); err != nil {
		return fmt.Errorf("today: %w", err)
	}
	if s.FetchError != "" && s.Remote == nil {
		return fmt.Errorf("fetch_error requires a remote section")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if !knownOps[step.Op] {
			return fmt.Errorf("flow[%d]: unknown op %q", i, step.Op)
		}
		switch step.Op {
		case OpAddOrder, OpAddExpense, OpSyncNow, OpAdvanceDays:
		default:
			if id, _ := step.Args["id"].(string); id == "" {
				return fmt.Errorf("flow[%d]: %s requires args.id", i, step.Op)
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(i int, a Assertion) error {
	switch a.Type {
	case AssertCount, AssertPushed:
		if !isCollection(a.Collection) {
			return fmt.Errorf("assertions[%d]: unknown collection %q", i, a.Collection)
		}
	case AssertRecord, AssertAbsent:
		if !isCollection(a.Collection) {
			return fmt.Errorf("assertions[%d]: unknown collection %q", i, a.Collection)
		}
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for %s", i, a.Type)
		}
		if a.Type == AssertRecord && len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for record", i)
		}
	case AssertUpcoming:
		if a.N <= 0 {
			return fmt.Errorf("assertions[%d]: n must be positive for upcoming", i)
		}
	case AssertSummary:
		if _, _, err := parseMonth(a.Month); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for summary", i)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", i)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
	}
	return nil
}

func isCollection(name string) bool {
	switch name {
	case model.CollectionOrders, model.CollectionCustomers, model.CollectionExpenses:
		return true
	}
	return false
}
