package pipeline

import (
	"github.com/klytics/salekit/internal/chart"
	"github.com/klytics/salekit/internal/config"
	"github.com/klytics/salekit/internal/report"
)

// OptionsFromConfig builds run options from the loaded configuration,
// rejecting an unknown export format or chart backend up front.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	format, err := report.ParseFormat(cfg.Export.Format)
	if err != nil {
		return Options{}, err
	}
	backend, err := chart.ParseBackend(cfg.Chart.Backend)
	if err != nil {
		return Options{}, err
	}

	chartOpts := cfg.ChartOptions()
	chartOpts.Backend = backend

	return Options{
		Input:  cfg.Input.Path,
		Load:   cfg.LoadOptions(),
		Report: cfg.ReportOptions(),
		Output: cfg.Output.Path,
		Format: format,
		Chart:  chartOpts,
	}, nil
}
