package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/report"
)

// NewReportCommand creates the report command: the dashboard figures for
// one month.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly revenue, orders, new customers, expenses and net profit",
		Example: `  cakeledger report
  cakeledger report --month 2024-03 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				year, m, err := parseMonthFlag(month, app)
				if err != nil {
					return err
				}
				return app.Out.Success(summaryView(app.Store.MonthSummary(year, m)))
			})
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "current", "YYYY-MM")
	return cmd
}

// NewUpcomingCommand creates the upcoming command.
func NewUpcomingCommand(opts *RootOptions) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:           "upcoming",
		Short:         "Orders due today or later that are not delivered, soonest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				return app.Out.Success(orderList(app.Store.UpcomingOrders(n)))
			})
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 5, "number of orders to show")
	return cmd
}

type summaryView report.Summary

func (v summaryView) WriteText(w io.Writer) error {
	s := report.Summary(v)
	rows := [][]string{
		{"revenue", s.Revenue.StringFixed(2)},
		{"orders", fmt.Sprint(s.Orders)},
		{"eggless orders", fmt.Sprint(s.Eggless)},
		{"new customers", fmt.Sprint(s.NewCustomers)},
		{"expenses", s.Expenses.StringFixed(2)},
		{"net profit", s.NetProfit.StringFixed(2)},
	}
	if _, err := fmt.Fprintf(w, "%s %d\n", s.Month, s.Year); err != nil {
		return err
	}
	return table(w, []string{"FIGURE", "VALUE"}, rows)
}
