package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/klytics/salekit/internal/chart"
)

func setupTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	t.Setenv("HOME", dir)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Chdir(wd)
		viper.Reset()
	})
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setupTestConfig(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input.Path != "retail_sales.csv" {
		t.Errorf("input.path = %q", cfg.Input.Path)
	}
	if cfg.Output.Path != "sales_report.xlsx" {
		t.Errorf("output.path = %q", cfg.Output.Path)
	}
	if cfg.Report.Round != 2 || !cfg.Report.IncludeTotal {
		t.Errorf("report = %+v", cfg.Report)
	}
	if cfg.Chart.Backend != "png" {
		t.Errorf("chart.backend = %q", cfg.Chart.Backend)
	}

	opts := cfg.LoadOptions()
	if opts.Columns.Date != "Date" || opts.Columns.Sales != "Sales" || opts.Delimiter != 0 {
		t.Errorf("load options = %+v", opts)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := setupTestConfig(t)
	path := filepath.Join(dir, "salekit.yaml")
	content := `input:
  path: data/sales.tsv
  delimiter: tab
columns:
  sales: Amount
chart:
  backend: svg
report:
  round: -1
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input.Path != "data/sales.tsv" {
		t.Errorf("input.path = %q", cfg.Input.Path)
	}
	if got := cfg.LoadOptions(); got.Delimiter != '\t' || got.Columns.Sales != "Amount" || got.Columns.Date != "Date" {
		t.Errorf("load options = %+v", got)
	}
	if cfg.ChartOptions().Backend != chart.BackendSVG {
		t.Errorf("backend = %q", cfg.ChartOptions().Backend)
	}
	if cfg.ReportOptions().RoundPlaces != -1 {
		t.Errorf("round = %d", cfg.ReportOptions().RoundPlaces)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := setupTestConfig(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	setupTestConfig(t)
	t.Setenv("SALEKIT_OUTPUT_PATH", "out/report.xlsx")
	t.Setenv("SALEKIT_EXPORT_FORMAT", "csv")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Path != "out/report.xlsx" {
		t.Errorf("output.path = %q", cfg.Output.Path)
	}
	if cfg.Export.Format != "csv" {
		t.Errorf("export.format = %q", cfg.Export.Format)
	}
}

func TestDotEnvFile(t *testing.T) {
	dir := setupTestConfig(t)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SALEKIT_CHART_BACKEND=none\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("SALEKIT_CHART_BACKEND") })

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Chart.Backend != "none" {
		t.Errorf("chart.backend = %q, want none from .env", cfg.Chart.Backend)
	}
}

func TestSetAndGet(t *testing.T) {
	dir := setupTestConfig(t)
	if _, err := Load(""); err != nil {
		t.Fatal(err)
	}

	if err := Set("export.format", "csv"); err != nil {
		t.Fatal(err)
	}
	if got := Get("export.format"); got != "csv" {
		t.Errorf("Get(export.format) = %q, want csv", got)
	}
	if _, err := os.Stat(filepath.Join(dir, ".salekit", "config.yaml")); err != nil {
		t.Errorf("config file not saved: %v", err)
	}

	if err := Set("provider", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestResetConfig(t *testing.T) {
	setupTestConfig(t)
	Load("")
	Set("chart.backend", "svg")

	if err := ResetConfig(); err != nil {
		t.Fatal(err)
	}
	if got := Get("chart.backend"); got != "png" {
		t.Errorf("chart.backend should reset to png, got %q", got)
	}
	if _, err := os.Stat(ConfigPath()); !os.IsNotExist(err) {
		t.Error("config file should be removed")
	}
}

func TestValidate(t *testing.T) {
	setupTestConfig(t)
	Load("")
	viper.Set("chart.backend", "tkagg")
	viper.Set("export.format", "pdf")

	issues := Validate()
	errs := map[string]bool{}
	for _, issue := range issues {
		if issue.Severity == "error" {
			errs[issue.Key] = true
		}
	}
	if !errs["chart.backend"] || !errs["export.format"] {
		t.Errorf("expected backend and format errors, got %+v", issues)
	}

	hasInputWarning := false
	for _, issue := range issues {
		if issue.Key == "input.path" && issue.Severity == "warning" {
			hasInputWarning = true
		}
	}
	if !hasInputWarning {
		t.Error("expected warning for missing input file")
	}
}

func TestToEnv(t *testing.T) {
	setupTestConfig(t)
	Load("")

	env := ToEnv()
	if env["SALEKIT_INPUT_PATH"] != "retail_sales.csv" {
		t.Errorf("SALEKIT_INPUT_PATH = %q", env["SALEKIT_INPUT_PATH"])
	}
	if env["SALEKIT_REPORT_INCLUDE_TOTAL"] != "true" {
		t.Errorf("SALEKIT_REPORT_INCLUDE_TOTAL = %q", env["SALEKIT_REPORT_INCLUDE_TOTAL"])
	}
}

func TestShowConfig(t *testing.T) {
	setupTestConfig(t)
	Load("")

	out := ShowConfig()
	for _, want := range []string{"chart", "backend:", "png", "sales_report.xlsx"} {
		if !strings.Contains(out, want) {
			t.Errorf("ShowConfig missing %q:\n%s", want, out)
		}
	}
}
