// Package analyze provides the report commands: run, summary and chart.
package analyze

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/klytics/salekit/internal/config"
	"github.com/klytics/salekit/internal/logging"
	"github.com/klytics/salekit/internal/pipeline"
)

// Setup loads the configuration named by --config, applies any command
// flags on top of it and returns pipeline options plus a logger.
func Setup(cmd *cobra.Command) (pipeline.Options, *logrus.Logger, error) {
	flags := cmd.Flags()
	file, _ := flags.GetString("config")

	cfg, err := config.Load(file)
	if err != nil {
		return pipeline.Options{}, nil, fmt.Errorf("could not load config: %w", err)
	}
	applyFlags(flags, cfg)

	verbose, _ := flags.GetBool("verbose")
	logger := logging.New(cfg.Log.Level, verbose, os.Stderr)
	if !cfg.Output.Color {
		color.NoColor = true
	}

	opts, err := pipeline.OptionsFromConfig(cfg)
	if err != nil {
		return pipeline.Options{}, nil, fmt.Errorf("%w — run 'salekit config validate'", err)
	}
	if skip, _ := flags.GetBool("no-charts"); skip {
		opts.SkipCharts = true
	}
	return opts, logger, nil
}

func changed(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Changed
}

func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	if changed(flags, "input") {
		cfg.Input.Path, _ = flags.GetString("input")
	}
	if changed(flags, "output") {
		cfg.Output.Path, _ = flags.GetString("output")
	}
	if changed(flags, "format") {
		cfg.Export.Format, _ = flags.GetString("format")
	}
	if changed(flags, "chart-backend") {
		cfg.Chart.Backend, _ = flags.GetString("chart-backend")
	}
	if changed(flags, "chart-dir") {
		cfg.Chart.Dir, _ = flags.GetString("chart-dir")
	}
	if changed(flags, "open") {
		cfg.Chart.Open, _ = flags.GetBool("open")
	}
	if changed(flags, "round") {
		cfg.Report.Round, _ = flags.GetInt("round")
	}
}

func addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Sales data file (.csv, .tsv, .xlsx); overrides input.path")
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().String("chart-backend", "", "Chart backend: png | svg | none")
	cmd.Flags().String("chart-dir", "", "Directory for chart images")
	cmd.Flags().Bool("open", false, "Open charts with the system viewer")
}
