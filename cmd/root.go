// Package cmd contains all CLI commands for the salekit binary.
package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/salekit/cmd/analyze"
	"github.com/klytics/salekit/cmd/completion"
	cmdconfig "github.com/klytics/salekit/cmd/config"
	"github.com/klytics/salekit/cmd/doctor"
	"github.com/klytics/salekit/cmd/version"
	cmdwatch "github.com/klytics/salekit/cmd/watch"
	"github.com/klytics/salekit/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	noColor    bool
	configFile string
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	// Let the config group's own pre-run hook chain after the root one.
	cobra.EnableTraverseRunHooks = true

	rootCmd := &cobra.Command{
		Use:   "salekit",
		Short: "Retail sales analysis and reporting",
		Long: `salekit — sales numbers in, charts and a workbook out.

Loads a Date/Product/Sales table (.csv, .tsv or .xlsx), drops incomplete rows,
computes totals per product, the best seller and average daily sales, renders a
trend chart and a per-product chart, and exports a multi-sheet report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
			if jsonOutput {
				os.Setenv("SALEKIT_JSON", "true")
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.salekit/config.yaml)")

	// Register subcommands
	rootCmd.AddCommand(analyze.NewRunCommand())
	rootCmd.AddCommand(analyze.NewSummaryCommand())
	rootCmd.AddCommand(analyze.NewChartCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		output.WriteError(os.Stderr, "%s", err)
		os.Exit(output.ExitCode(err))
	}
}
