package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/model"
)

// NewExpensesCommand creates the expenses command group.
func NewExpensesCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List and edit business expenses",
	}
	cmd.AddCommand(newExpensesListCommand(opts))
	cmd.AddCommand(newExpensesAddCommand(opts))
	cmd.AddCommand(newExpensesUpdateCommand(opts))
	cmd.AddCommand(newExpensesDeleteCommand(opts))
	return cmd
}

func newExpensesListCommand(opts *RootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List expenses, optionally for one month",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				if month == "" {
					return app.Out.Success(expenseList(app.Store.Expenses()))
				}
				year, m, err := parseMonthFlag(month, app)
				if err != nil {
					return err
				}
				return app.Out.Success(expenseList(app.Store.ExpensesInMonth(year, m)))
			})
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "YYYY-MM, or \"current\"")
	return cmd
}

func newExpensesAddCommand(opts *RootOptions) *cobra.Command {
	f := &expenseFlags{}

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Record an expense",
		Example:       `  cakeledger expenses add --description "Flour 10kg" --amount 12.50 --category Ingredients`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				var e model.Expense
				if err := f.apply(cmd, &e, false); err != nil {
					return err
				}
				if err := app.Validator.Expense(e); err != nil {
					return validationError(err)
				}
				added, err := app.Store.AddExpense(ctx, e)
				if err != nil {
					return mutationError("add expense", err)
				}
				return app.Out.Success(expenseList{added})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newExpensesUpdateCommand(opts *RootOptions) *cobra.Command {
	f := &expenseFlags{}

	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change fields of an expense; only the given flags are applied",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				e, ok := app.Store.Expense(args[0])
				if !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("expense %s not found", args[0]))
				}
				if err := f.apply(cmd, &e, true); err != nil {
					return err
				}
				if err := app.Validator.Expense(e); err != nil {
					return validationError(err)
				}
				if err := app.Store.UpdateExpense(ctx, e); err != nil {
					return mutationError("update expense", err)
				}
				return app.Out.Success(expenseList{e})
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newExpensesDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete an expense",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				if err := app.Store.DeleteExpense(ctx, args[0]); err != nil {
					return mutationError("delete expense", err)
				}
				return app.Out.Success(deleted{Kind: "expense", ID: args[0]})
			})
		},
	}
}

type expenseFlags struct {
	description string
	amount      string
	date        string
	category    string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.description, "description", "", "what was bought")
	fs.StringVar(&f.amount, "amount", "", "amount spent")
	fs.StringVar(&f.date, "date", "", "date YYYY-MM-DD (default today)")
	fs.StringVar(&f.category, "category", model.CategoryOther, fmt.Sprintf("category, one of %v or free text", model.Categories))
}

func (f *expenseFlags) apply(cmd *cobra.Command, e *model.Expense, onlyChanged bool) error {
	set := func(name string) bool {
		return !onlyChanged || cmd.Flags().Changed(name)
	}
	if set("description") {
		e.Description = strings.TrimSpace(f.description)
	}
	if set("category") {
		e.Category = strings.TrimSpace(f.category)
	}
	if set("amount") {
		d, err := parseMoney("amount", f.amount)
		if err != nil {
			return err
		}
		e.Amount = d
	}
	if set("date") {
		d, err := parseDateFlag("date", f.date)
		if err != nil {
			return err
		}
		e.Date = d
	}
	return nil
}

type expenseList []model.Expense

func (l expenseList) WriteText(w io.Writer) error {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{e.ID, e.Date.String(), e.Category, e.Amount.StringFixed(2), e.Description})
	}
	return table(w, []string{"ID", "DATE", "CATEGORY", "AMOUNT", "DESCRIPTION"}, rows)
}
