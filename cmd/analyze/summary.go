package analyze

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/klytics/salekit/internal/output"
	"github.com/klytics/salekit/internal/pipeline"
	"github.com/klytics/salekit/internal/progress"
)

// NewSummaryCommand returns the "summary" command: metrics only, no files written.
func NewSummaryCommand() *cobra.Command {
	var yamlOut bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print sales metrics without writing charts or a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, logger, err := Setup(cmd)
			if err != nil {
				return err
			}
			opts.SkipCharts = true
			opts.SkipExport = true

			jsonOut, _ := cmd.Flags().GetBool("json")
			format := output.FormatText
			switch {
			case jsonOut:
				format = output.FormatJSON
			case yamlOut:
				format = output.FormatYAML
			}

			runner := pipeline.New(opts, logger)
			// Stage output is replaced by the formatted result below, so the
			// stderr bar is the only live feedback.
			runner.Out = io.Discard
			runner.Progress = progress.New("summary", 0)
			res, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			w := output.NewWriterTo(cmd.OutOrStdout(), format)
			return w.Result("summary", res.Bundle, func(out io.Writer) error {
				pipeline.PrintSummary(out, res.Bundle)
				return nil
			})
		},
	}

	addInputFlag(cmd)
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Output as YAML")

	return cmd
}
