package scenario

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		sc, err := Load(path)
		require.NoError(t, err, path)

		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ReportsFailedAssertions(t *testing.T) {
	sc, err := Parse([]byte(`
name: wrong_expectations
description: "assertions that do not hold"
today: "2024-03-10"
flow:
  - op: add_order
    args: { customerName: Ana, cakeType: Plum, quantity: 1, price: 10, dueDate: "2024-03-11" }
    expect: { id: id-9 }
assertions:
  - type: count
    collection: Orders
    count: 2
  - type: record
    collection: Orders
    id: id-1
    expect: { cakeType: Lemon }
  - type: pushed
    collection: Orders
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], `id = "id-1", want "id-9"`)
	assert.Contains(t, result.Errors[1], "count Orders: got 1, want 2")
	assert.Contains(t, result.Errors[2], "cakeType = Plum, want Lemon")
	assert.Contains(t, result.Errors[3], "no remote")
}

func TestRun_UnexpectedStepError(t *testing.T) {
	sc, err := Parse([]byte(`
name: unexpected_error
description: "a persist failure nobody expected"
today: "2024-03-10"
cache_fails: true
flow:
  - op: add_expense
    args: { description: Tape, amount: 1, category: Other }
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, "persist", result.Trace.Steps[0].Error)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown field",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\nflows: []\n",
			want: "failed to parse YAML",
		},
		{
			name: "missing today",
			doc:  "name: x\ndescription: y\nflow:\n  - op: sync_now\n",
			want: "today is required",
		},
		{
			name: "empty flow",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\n",
			want: "flow list is required",
		},
		{
			name: "unknown op",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\nflow:\n  - op: bake\n",
			want: `unknown op "bake"`,
		},
		{
			name: "update without id",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\nflow:\n  - op: delete_order\n    args: {}\n",
			want: "delete_order requires args.id",
		},
		{
			name: "fetch error without remote",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\nfetch_error: boom\nflow:\n  - op: sync_now\n",
			want: "fetch_error requires a remote section",
		},
		{
			name: "unknown collection",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\nflow:\n  - op: sync_now\nassertions:\n  - type: count\n    collection: Cakes\n",
			want: `unknown collection "Cakes"`,
		},
		{
			name: "bad month",
			doc:  "name: x\ndescription: y\ntoday: \"2024-03-10\"\nflow:\n  - op: sync_now\nassertions:\n  - type: summary\n    month: March\n    expect: { orders: 1 }\n",
			want: "want YYYY-MM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/scenarios/does_not_exist.yaml")
	assert.Error(t, err)
}
