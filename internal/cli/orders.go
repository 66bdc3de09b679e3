package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/model"
	"github.com/roach88/cakeledger/internal/report"
	"github.com/roach88/cakeledger/internal/store"
	"github.com/roach88/cakeledger/internal/validate"
)

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List and edit cake orders",
	}
	cmd.AddCommand(newOrdersListCommand(opts))
	cmd.AddCommand(newOrdersShowCommand(opts))
	cmd.AddCommand(newOrdersAddCommand(opts))
	cmd.AddCommand(newOrdersUpdateCommand(opts))
	cmd.AddCommand(newOrdersStatusCommand(opts))
	cmd.AddCommand(newOrdersDeleteCommand(opts))
	return cmd
}

func newOrdersListCommand(opts *RootOptions) *cobra.Command {
	var search, status, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Example: `  cakeledger orders list --status pending --sort date-asc
  cakeledger orders list --search velvet`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := report.ParseSortOrder(sortBy)
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			if status != "" && !model.Status(status).Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown status %q", status))
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				orders := app.Store.FilterOrders(report.OrderFilter{
					Search: search,
					Status: model.Status(status),
					Sort:   order,
				})
				return app.Out.Success(orderList(orders))
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "match customer name, cake type or phone")
	cmd.Flags().StringVar(&status, "status", "", "only orders in this status")
	cmd.Flags().StringVar(&sortBy, "sort", string(report.SortDateDesc), "date-desc|date-asc|price-desc|price-asc")
	return cmd
}

func newOrdersShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show one order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				o, ok := app.Store.Order(args[0])
				if !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("order %s not found", args[0]))
				}
				return app.Out.Success(orderView(o))
			})
		},
	}
}

func newOrdersAddCommand(opts *RootOptions) *cobra.Command {
	f := &orderFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new order",
		Example: `  cakeledger orders add --customer "Asha Rao" --phone 5550101234 \
      --cake "Red Velvet" --price 40 --due 2024-03-12 --eggless`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				var o model.Order
				if err := f.apply(ctx, cmd, app, &o, false); err != nil {
					return err
				}
				if o.OrderDate.IsZero() {
					o.OrderDate = app.Store.Today()
				}
				if o.Status == "" {
					o.Status = model.StatusPending
				}
				if err := app.Validator.Order(o); err != nil {
					return validationError(err)
				}
				added, err := app.Store.AddOrder(ctx, o)
				if err != nil {
					return mutationError("add order", err)
				}
				return app.Out.Success(orderView(added))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newOrdersUpdateCommand(opts *RootOptions) *cobra.Command {
	f := &orderFlags{}

	cmd := &cobra.Command{
		Use:           "update <id>",
		Short:         "Change fields of an order; only the given flags are applied",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				o, ok := app.Store.Order(args[0])
				if !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("order %s not found", args[0]))
				}
				if err := f.apply(ctx, cmd, app, &o, true); err != nil {
					return err
				}
				if err := app.Validator.Order(o); err != nil {
					return validationError(err)
				}
				if err := app.Store.UpdateOrder(ctx, o); err != nil {
					return mutationError("update order", err)
				}
				return app.Out.Success(orderView(o))
			})
		},
	}
	f.register(cmd)
	return cmd
}

func newOrdersStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status <id> <pending|in-progress|ready|delivered>",
		Short:         "Move an order through the workflow",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := model.Status(args[1])
			if !status.Valid() {
				return NewExitError(ExitCommandError, fmt.Sprintf("unknown status %q", args[1]))
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				if _, ok := app.Store.Order(args[0]); !ok {
					return NewExitError(ExitFailure, fmt.Sprintf("order %s not found", args[0]))
				}
				if err := app.Store.SetOrderStatus(ctx, args[0], status); err != nil {
					return mutationError("set status", err)
				}
				o, _ := app.Store.Order(args[0])
				return app.Out.Success(orderView(o))
			})
		},
	}
}

func newOrdersDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete an order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				if err := app.Store.DeleteOrder(ctx, args[0]); err != nil {
					return mutationError("delete order", err)
				}
				return app.Out.Success(deleted{Kind: "order", ID: args[0]})
			})
		},
	}
}

// orderFlags are the editable order fields shared by add and update.
type orderFlags struct {
	customer       string
	phone          string
	cake           string
	quantity       int
	price          string
	additional     string
	deliveryCharge string
	details        string
	address        string
	due            string
	orderDate      string
	status         string
	eggless        bool
	cakeImage      string
	deliveredImage string
}

func (f *orderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.customer, "customer", "", "customer name")
	fs.StringVar(&f.phone, "phone", "", "10-digit customer phone")
	fs.StringVar(&f.cake, "cake", "", "cake type")
	fs.IntVar(&f.quantity, "quantity", 1, "number of cakes")
	fs.StringVar(&f.price, "price", "0", "price")
	fs.StringVar(&f.additional, "additional", "0", "additional charges")
	fs.StringVar(&f.deliveryCharge, "delivery-charge", "0", "delivery charge")
	fs.StringVar(&f.details, "details", "", "other details (message on cake, flavours)")
	fs.StringVar(&f.address, "address", "", "delivery address; setting one marks the order for delivery")
	fs.StringVar(&f.due, "due", "", "due date YYYY-MM-DD")
	fs.StringVar(&f.orderDate, "order-date", "", "order date YYYY-MM-DD (default today)")
	fs.StringVar(&f.status, "status", "", "pending|in-progress|ready|delivered")
	fs.BoolVar(&f.eggless, "eggless", false, "eggless cake")
	fs.StringVar(&f.cakeImage, "cake-image", "", "reference image: file path, URL or data URL")
	fs.StringVar(&f.deliveredImage, "delivered-image", "", "photo of the delivered cake: file path, URL or data URL")
}

// apply copies flags onto o, trimming surrounding whitespace from text
// fields. With onlyChanged, flags the user did not pass are left alone.
func (f *orderFlags) apply(ctx context.Context, cmd *cobra.Command, app *App, o *model.Order, onlyChanged bool) error {
	set := func(name string) bool {
		return !onlyChanged || cmd.Flags().Changed(name)
	}

	if set("customer") {
		o.CustomerName = strings.TrimSpace(f.customer)
	}
	if set("phone") {
		o.CustomerPhone = strings.TrimSpace(f.phone)
	}
	if set("cake") {
		o.CakeType = strings.TrimSpace(f.cake)
	}
	if set("quantity") {
		o.Quantity = f.quantity
	}
	if set("details") {
		o.OtherDetails = f.details
	}
	if set("address") {
		o.DeliveryAddress = strings.TrimSpace(f.address)
		o.HasDelivery = o.DeliveryAddress != ""
	}
	if set("eggless") {
		o.IsEggless = f.eggless
	}
	if set("status") && f.status != "" {
		o.Status = model.Status(f.status)
	}

	money := []struct {
		flag string
		src  string
		dst  *decimal.Decimal
	}{
		{"price", f.price, &o.Price},
		{"additional", f.additional, &o.AdditionalCharges},
		{"delivery-charge", f.deliveryCharge, &o.DeliveryCharge},
	}
	for _, m := range money {
		if !set(m.flag) {
			continue
		}
		d, err := parseMoney(m.flag, m.src)
		if err != nil {
			return err
		}
		*m.dst = d
	}

	dates := []struct {
		flag string
		src  string
		dst  *model.Date
	}{
		{"due", f.due, &o.DueDate},
		{"order-date", f.orderDate, &o.OrderDate},
	}
	for _, d := range dates {
		if !set(d.flag) {
			continue
		}
		parsed, err := parseDateFlag(d.flag, d.src)
		if err != nil {
			return err
		}
		*d.dst = parsed
	}

	imageFlags := []struct {
		flag string
		src  string
		dst  *string
	}{
		{"cake-image", f.cakeImage, &o.CakeImage},
		{"delivered-image", f.deliveredImage, &o.DeliveredImage},
	}
	for _, img := range imageFlags {
		if !cmd.Flags().Changed(img.flag) {
			continue
		}
		ref, err := app.Images.Resolve(ctx, img.src)
		if err != nil {
			return WrapExitError(ExitFailure, "--"+img.flag, err)
		}
		*img.dst = ref
	}
	return nil
}

func parseMoney(flag, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewExitError(ExitCommandError, fmt.Sprintf("--%s: not an amount: %q", flag, s))
	}
	return d, nil
}

func validationError(err error) error {
	e := WrapExitError(ExitFailure, "rejected", err)
	var ve *validate.Error
	if errors.As(err, &ve) {
		e.Details = ve.Fields
	}
	return e
}

func mutationError(op string, err error) error {
	if errors.Is(err, store.ErrPersist) {
		return WrapExitError(ExitFailure, op+": change was pushed but not saved to the local cache", err)
	}
	return WrapExitError(ExitFailure, op, err)
}

type deleted struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (d deleted) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "deleted %s %s\n", d.Kind, d.ID)
	return err
}

type orderList []model.Order

func (l orderList) WriteText(w io.Writer) error {
	rows := make([][]string, 0, len(l))
	for _, o := range l {
		rows = append(rows, []string{
			o.ID,
			o.DueDate.String(),
			o.CustomerName,
			o.CakeType,
			strconv.Itoa(o.Quantity),
			o.GrandTotal().StringFixed(2),
			string(o.Status),
			yesNo(o.IsEggless),
		})
	}
	return table(w, []string{"ID", "DUE", "CUSTOMER", "CAKE", "QTY", "TOTAL", "STATUS", "EGGLESS"}, rows)
}

type orderView model.Order

func (v orderView) WriteText(w io.Writer) error {
	o := model.Order(v)
	rows := [][]string{
		{"id", o.ID},
		{"customer", o.CustomerName},
		{"phone", o.CustomerPhone},
		{"cake", o.CakeType},
		{"quantity", strconv.Itoa(o.Quantity)},
		{"price", o.Price.StringFixed(2)},
		{"additional", o.AdditionalCharges.StringFixed(2)},
		{"delivery charge", o.DeliveryCharge.StringFixed(2)},
		{"grand total", o.GrandTotal().StringFixed(2)},
		{"details", o.OtherDetails},
		{"delivery", yesNo(o.HasDelivery)},
		{"address", o.DeliveryAddress},
		{"order date", o.OrderDate.String()},
		{"due date", o.DueDate.String()},
		{"status", string(o.Status)},
		{"eggless", yesNo(o.IsEggless)},
		{"cake image", imageSummary(o.CakeImage)},
		{"delivered image", imageSummary(o.DeliveredImage)},
	}
	return table(w, []string{"FIELD", "VALUE"}, rows)
}
