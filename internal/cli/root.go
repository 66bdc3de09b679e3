package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/remote"
	"github.com/roach88/cakeledger/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Offline    bool

	// Transport overrides the configured remote store (for testing).
	Transport remote.Transport
	// Clock overrides the wall clock (for testing).
	Clock store.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cakeledger CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cakeledger",
		Short: "cakeledger - orders, customers and expenses for a home bakery",
		Long: `cakeledger keeps a bakery's orders, customers and expenses in a local
cache and mirrors them to a spreadsheet behind a scripted web endpoint.

Every command works offline: changes are committed locally first and
pushed to the spreadsheet in the background on a best-effort basis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./cakeledger.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "skip the remote store entirely")

	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewExpensesCommand(opts))
	cmd.AddCommand(NewCustomersCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewUpcomingCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
