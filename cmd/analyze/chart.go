package analyze

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/salekit/internal/output"
	"github.com/klytics/salekit/internal/pipeline"
)

// NewChartCommand returns the "chart" command: charts only, no report.
func NewChartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the sales trend and per-product charts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := Setup(cmd)
			if err != nil {
				return err
			}
			opts.SkipExport = true

			runner := pipeline.New(opts, logger)
			if !runner.Renderer.Enabled() {
				return fmt.Errorf("chart backend is %q — pass --chart-backend png or svg", opts.Chart.Backend)
			}
			runner.Out = cmd.OutOrStdout()

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				runner.Out = nil
			}

			res, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}
			if len(res.Charts) == 0 {
				return fmt.Errorf("no charts were rendered — see the warnings above")
			}
			if jsonOut {
				return output.PrintJSON("chart", res.Charts)
			}
			return nil
		},
	}

	addInputFlag(cmd)
	addChartFlags(cmd)

	return cmd
}
