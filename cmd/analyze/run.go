package analyze

import (
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/salekit/internal/output"
	"github.com/klytics/salekit/internal/pipeline"
)

// NewRunCommand returns the "run" command: the full report pipeline.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze sales data and write charts and the report",
		Long: `Load the sales file, drop rows with missing values, print the key metrics,
render the trend and per-product charts and export the multi-sheet report.

Example:
  salekit run
  salekit run -i data/march.csv -o reports/march.xlsx --chart-backend svg
  salekit run --format csv --no-charts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := Setup(cmd)
			if err != nil {
				return err
			}
			jsonOut, _ := cmd.Flags().GetBool("json")

			out := cmd.OutOrStdout()
			runner := pipeline.New(opts, logger)
			runner.Out = out
			if jsonOut {
				runner.Out = io.Discard
			} else {
				color.New(color.Bold).Fprintln(out, "Retail Sales Analyzer")
			}

			res, err := runner.Run(cmd.Context())
			if err != nil {
				if jsonOut {
					output.PrintJSONError("run", err, output.ExitCode(err))
				}
				return err
			}

			if jsonOut {
				return output.PrintJSON("run", res)
			}
			color.New(color.FgGreen).Fprintln(out, "\nAnalysis and report generation complete!")
			return nil
		},
	}

	addInputFlag(cmd)
	cmd.Flags().StringP("output", "o", "", "Report path (.xlsx); CSV files go to its directory")
	cmd.Flags().String("format", "", "Export format: auto | xlsx | csv")
	cmd.Flags().Int("round", 2, "Decimal places for averages (negative keeps full precision)")
	cmd.Flags().Bool("no-charts", false, "Skip chart rendering")
	addChartFlags(cmd)

	return cmd
}
