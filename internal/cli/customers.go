package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/model"
)

// NewCustomersCommand creates the customers command group. Customers are
// created by adding orders; they can be listed, corrected and removed.
func NewCustomersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "List and correct customers",
	}
	cmd.AddCommand(newCustomersListCommand(opts))
	cmd.AddCommand(newCustomersUpdateCommand(opts))
	cmd.AddCommand(newCustomersDeleteCommand(opts))
	return cmd
}

func newCustomersListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List customers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				return app.Out.Success(customerList(app.Store.Customers()))
			})
		},
	}
}

func newCustomersUpdateCommand(opts *RootOptions) *cobra.Command {
	var name, phone, email string

	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change a customer's name, phone or email",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				c, ok := app.Store.Customer(args[0])
				if !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("customer %s not found", args[0]))
				}
				if cmd.Flags().Changed("name") {
					c.Name = strings.TrimSpace(name)
				}
				if cmd.Flags().Changed("phone") {
					c.Phone = strings.TrimSpace(phone)
				}
				if cmd.Flags().Changed("email") {
					c.Email = strings.TrimSpace(email)
				}
				if err := app.Store.UpdateCustomer(ctx, c); err != nil {
					return mutationError("update customer", err)
				}
				updated, _ := app.Store.Customer(args[0])
				return app.Out.Success(customerList{updated})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func newCustomersDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a customer; their orders are kept",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				if err := app.Store.DeleteCustomer(ctx, args[0]); err != nil {
					return mutationError("delete customer", err)
				}
				return app.Out.Success(deleted{Kind: "customer", ID: args[0]})
			})
		},
	}
}

type customerList []model.Customer

func (l customerList) WriteText(w io.Writer) error {
	rows := make([][]string, 0, len(l))
	for _, c := range l {
		rows = append(rows, []string{c.ID, c.Name, c.Phone, c.Email, c.FirstOrderDate.String()})
	}
	return table(w, []string{"ID", "NAME", "PHONE", "EMAIL", "FIRST ORDER"}, rows)
}
