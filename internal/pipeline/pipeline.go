// Package pipeline runs the sales report end to end: load, clean, analyze,
// chart and export, one stage after another.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/klytics/salekit/internal/chart"
	"github.com/klytics/salekit/internal/progress"
	"github.com/klytics/salekit/internal/report"
	"github.com/klytics/salekit/internal/sales"
)

// Stage names, in execution order.
const (
	StageLoad    = "load"
	StageClean   = "clean"
	StageAnalyze = "analyze"
	StageChart   = "chart"
	StageExport  = "export"
)

// Options describes one run.
type Options struct {
	Input      string
	Load       sales.LoadOptions
	Report     report.Options
	Output     string
	Format     report.Format
	Chart      chart.Options
	SkipCharts bool
	SkipExport bool
}

// StageResult records how a stage went.
type StageResult struct {
	Stage    string        `json:"stage" yaml:"stage"`
	Duration time.Duration `json:"duration" yaml:"duration"`
	Skipped  bool          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Result is everything a run produced.
type Result struct {
	Removed int            `json:"removed" yaml:"removed"`
	Bundle  *report.Bundle `json:"report" yaml:"report"`
	Charts  []string       `json:"charts,omitempty" yaml:"charts,omitempty"`
	Export  *report.Result `json:"export,omitempty" yaml:"export,omitempty"`
	Stages  []StageResult  `json:"stages" yaml:"stages"`
}

// Failures returns the best-effort stages that reported an error.
func (r *Result) Failures() []StageResult {
	var failed []StageResult
	for _, s := range r.Stages {
		if s.Error != "" {
			failed = append(failed, s)
		}
	}
	return failed
}

type stage struct {
	name       string
	run        func() error
	skip       bool
	bestEffort bool
}

// Runner executes the stages. Console messages go to Out; diagnostics go to Logger.
type Runner struct {
	Options  Options
	Logger   logrus.FieldLogger
	Out      io.Writer
	Progress *progress.Bar
	Renderer *chart.Renderer
	Exporter *report.Exporter
}

// New creates a runner with the excelize exporter and the configured chart backend.
func New(opts Options, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	renderer := chart.New(opts.Chart)
	renderer.Logger = logger
	exporter := report.NewExporter(opts.Format)
	exporter.Logger = logger

	return &Runner{
		Options:  opts,
		Logger:   logger,
		Out:      os.Stdout,
		Renderer: renderer,
		Exporter: exporter,
	}
}

// Run executes the pipeline. Load, schema and empty-data errors stop the run
// and are returned; chart and export failures are reported and recorded in
// the result but do not fail it.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	var table *sales.Table
	stages := []stage{
		{name: StageLoad, run: func() error {
			t, err := sales.Load(r.Options.Input, r.Options.Load)
			if err != nil {
				return err
			}
			table = t
			r.Logger.WithFields(logrus.Fields{"path": t.Source, "rows": t.Len()}).Info("loaded sales data")
			return nil
		}},
		{name: StageClean, run: func() error {
			removed, err := table.Clean()
			if err != nil {
				return err
			}
			res.Removed = removed
			r.Logger.WithFields(logrus.Fields{"removed": removed, "rows": table.Len()}).Debug("cleaned sales data")
			printCleaned(out, removed)
			return nil
		}},
		{name: StageAnalyze, run: func() error {
			b, err := report.Build(table, r.Options.Report)
			if err != nil {
				return err
			}
			res.Bundle = b
			PrintSummary(out, b)
			return nil
		}},
		{
			name:       StageChart,
			run:        func() error { return r.charts(out, res) },
			skip:       r.Options.SkipCharts || r.Renderer == nil || !r.Renderer.Enabled(),
			bestEffort: true,
		},
		{
			name:       StageExport,
			run:        func() error { return r.export(out, res) },
			skip:       r.Options.SkipExport,
			bestEffort: true,
		},
	}

	if r.Progress != nil {
		r.Progress.Total = len(stages)
	}

	for _, s := range stages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if s.skip {
			res.Stages = append(res.Stages, StageResult{Stage: s.name, Skipped: true})
			continue
		}
		if r.Progress != nil {
			r.Progress.Step(s.name)
		}

		start := time.Now()
		err := s.run()
		sr := StageResult{Stage: s.name, Duration: time.Since(start)}
		log := r.Logger.WithFields(logrus.Fields{
			"stage":    s.name,
			"duration": sr.Duration.Round(time.Millisecond),
		})

		if err != nil {
			sr.Error = err.Error()
			res.Stages = append(res.Stages, sr)
			if s.bestEffort {
				log.WithError(err).Warn("stage failed, continuing")
				continue
			}
			if r.Progress != nil {
				r.Progress.Clear()
			}
			return res, err
		}
		log.Debug("stage complete")
		res.Stages = append(res.Stages, sr)
	}

	if r.Progress != nil {
		r.Progress.Finish("report complete")
	}
	return res, nil
}

// charts renders both charts independently so one failure does not hide the other.
func (r *Runner) charts(out io.Writer, res *Result) error {
	var errs []error

	if path, err := r.Renderer.Trend(res.Bundle.DailyTotals); err != nil {
		errs = append(errs, fmt.Errorf("sales trend chart: %w", err))
	} else {
		res.Charts = append(res.Charts, path)
	}
	if path, err := r.Renderer.Products(res.Bundle.ProductTotals); err != nil {
		errs = append(errs, fmt.Errorf("sales per product chart: %w", err))
	} else {
		res.Charts = append(res.Charts, path)
	}

	printCharts(out, res.Charts, errs)
	return errors.Join(errs...)
}

func (r *Runner) export(out io.Writer, res *Result) error {
	if r.Exporter == nil {
		err := errors.New("no exporter configured")
		printExportError(out, err)
		return err
	}
	exported, err := r.Exporter.Export(res.Bundle, r.Options.Output)
	if err != nil {
		printExportError(out, err)
		return err
	}
	res.Export = exported
	printExported(out, exported)
	return nil
}
