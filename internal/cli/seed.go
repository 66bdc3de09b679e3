package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/fixtures"
)

// NewSeedCommand creates the seed command, which fills the ledger with
// generated demo data.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	var orders, expenses int
	var seed int64

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Add generated demo orders and expenses",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if orders < 0 || expenses < 0 {
				return NewExitError(ExitCommandError, "--orders and --expenses must not be negative")
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				gen := fixtures.New(seed, app.Store.Today())
				for _, o := range gen.Orders(orders) {
					if _, err := app.Store.AddOrder(ctx, o); err != nil {
						return mutationError("seed order", err)
					}
				}
				for _, e := range gen.Expenses(expenses) {
					if _, err := app.Store.AddExpense(ctx, e); err != nil {
						return mutationError("seed expense", err)
					}
				}
				return app.Out.Success(seedResult{Orders: orders, Expenses: expenses, Seed: seed})
			})
		},
	}
	cmd.Flags().IntVar(&orders, "orders", 20, "orders to add")
	cmd.Flags().IntVar(&expenses, "expenses", 10, "expenses to add")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	return cmd
}

type seedResult struct {
	Orders   int   `json:"orders"`
	Expenses int   `json:"expenses"`
	Seed     int64 `json:"seed"`
}

func (r seedResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "added %d orders and %d expenses (seed %d)\n", r.Orders, r.Expenses, r.Seed)
	return err
}
