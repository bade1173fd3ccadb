// Package watch provides the "salekit watch" command.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/salekit/cmd/analyze"
	"github.com/klytics/salekit/internal/output"
	"github.com/klytics/salekit/internal/pipeline"
	w "github.com/klytics/salekit/internal/watch"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		debounce  time.Duration
		noInitial bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the report whenever the sales file changes",
		Long: `Watch the input file and re-run the full report (charts and export)
each time it is saved. Runs once at startup unless --no-initial is set.

Example:
  salekit watch -i retail_sales.csv
  salekit watch --debounce 2s --no-charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := analyze.Setup(cmd)
			if err != nil {
				return err
			}

			watcher, err := w.New(w.Config{
				Path:       opts.Input,
				Debounce:   debounce,
				RunOnStart: !noInitial,
			})
			if err != nil {
				return err
			}
			watcher.Logger = logger

			out := cmd.OutOrStdout()
			watcher.Handler = func(ctx context.Context, path string) error {
				runner := pipeline.New(opts, logger)
				runner.Out = out
				_, err := runner.Run(ctx)
				return err
			}

			color.New(color.Bold).Fprintf(out, "Watching %s\n", opts.Input)
			fmt.Fprintln(out, "Press Ctrl+C to stop")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := watcher.Start(ctx); err != nil {
				return err
			}

			status := watcher.GetStatus()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return output.PrintJSON("watch", map[string]any{
					"status": status,
					"events": watcher.GetEvents(),
				})
			}
			fmt.Fprintf(out, "\nStopped after %d run(s), %d failed\n", status.EventCount, status.Failures)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Sales data file to watch; overrides input.path")
	cmd.Flags().StringP("output", "o", "", "Report path (.xlsx)")
	cmd.Flags().String("format", "", "Export format: auto | xlsx | csv")
	cmd.Flags().Bool("no-charts", false, "Skip chart rendering")
	cmd.Flags().DurationVar(&debounce, "debounce", w.DefaultDebounce, "Quiet period after the last write before re-running")
	cmd.Flags().BoolVar(&noInitial, "no-initial", false, "Do not run the report at startup")

	return cmd
}
