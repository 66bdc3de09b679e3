package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/roach88/cakeledger/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var format, dir string
	var progress bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection to CSV, XLSX or Parquet files",
		Example: `  cakeledger export --to csv --dir ./backup
  cakeledger export --to parquet --dir ./warehouse --progress`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				exportOpts := export.Options{Codec: app.Codec}
				if progress {
					bar := progressbar.NewOptions(export.Steps,
						progressbar.OptionSetWriter(cmd.ErrOrStderr()),
						progressbar.OptionSetDescription("exporting"),
						progressbar.OptionShowCount(),
					)
					exportOpts.OnFile = func(name string) {
						bar.Describe("exported " + name)
						_ = bar.Add(1)
					}
					defer bar.Finish()
				}

				paths, err := export.Write(ctx, f, dir, app.Store.Snapshot(), exportOpts)
				if err != nil {
					return WrapExitError(ExitFailure, "export failed", err)
				}
				return app.Out.Success(exportResult{Format: string(f), Files: paths})
			})
		},
	}
	cmd.Flags().StringVar(&format, "to", string(export.FormatCSV), "csv|xlsx|parquet")
	cmd.Flags().StringVarP(&dir, "dir", "d", "export", "output directory")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar on stderr")
	return cmd
}

type exportResult struct {
	Format string   `json:"format"`
	Files  []string `json:"files"`
}

func (r exportResult) WriteText(w io.Writer) error {
	for _, p := range r.Files {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}
