// Package config manages application configuration from files and environment.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/klytics/salekit/internal/chart"
	"github.com/klytics/salekit/internal/report"
	"github.com/klytics/salekit/internal/sales"
)

// EnvPrefix is prepended to every environment override, e.g. SALEKIT_OUTPUT_PATH.
const EnvPrefix = "SALEKIT"

// Config holds the application configuration.
type Config struct {
	Input struct {
		Path       string `mapstructure:"path"`
		Delimiter  string `mapstructure:"delimiter"`
		Sheet      string `mapstructure:"sheet"`
		DateLayout string `mapstructure:"date_layout"`
	} `mapstructure:"input"`
	Columns struct {
		Date    string `mapstructure:"date"`
		Product string `mapstructure:"product"`
		Sales   string `mapstructure:"sales"`
	} `mapstructure:"columns"`
	Output struct {
		Path  string `mapstructure:"path"`
		Color bool   `mapstructure:"color"`
	} `mapstructure:"output"`
	Export struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"export"`
	Report struct {
		Round        int  `mapstructure:"round"`
		IncludeTotal bool `mapstructure:"include_total"`
	} `mapstructure:"report"`
	Chart struct {
		Backend string `mapstructure:"backend"`
		Dir     string `mapstructure:"dir"`
		Open    bool   `mapstructure:"open"`
		Width   int    `mapstructure:"width"`
		Height  int    `mapstructure:"height"`
	} `mapstructure:"chart"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

var defaults = map[string]any{
	"input.path":           "retail_sales.csv",
	"input.delimiter":      "",
	"input.sheet":          "",
	"input.date_layout":    "",
	"columns.date":         "Date",
	"columns.product":      "Product",
	"columns.sales":        "Sales",
	"output.path":          "sales_report.xlsx",
	"output.color":         true,
	"export.format":        "auto",
	"report.round":         2,
	"report.include_total": true,
	"chart.backend":        "png",
	"chart.dir":            ".",
	"chart.open":           false,
	"chart.width":          1200,
	"chart.height":         600,
	"log.level":            "info",
}

// SetDefaults registers every known key with its default value.
func SetDefaults() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// Load reads the configuration. An explicit file wins; otherwise
// ~/.salekit/config.yaml is used when present. A .env file in the working
// directory and SALEKIT_* variables override file values.
func Load(file string) (*Config, error) {
	// Missing .env is the common case.
	_ = godotenv.Load()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(configDir())
	}

	SetDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A named file must exist; the default location is optional.
		if _, notFound := err.(viper.ConfigFileNotFoundError); file != "" || !notFound {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptions converts the input settings for sales.Load.
func (c *Config) LoadOptions() sales.LoadOptions {
	return sales.LoadOptions{
		Columns: sales.Columns{
			Date:    c.Columns.Date,
			Product: c.Columns.Product,
			Sales:   c.Columns.Sales,
		},
		Delimiter:  parseDelimiter(c.Input.Delimiter),
		Sheet:      c.Input.Sheet,
		DateLayout: c.Input.DateLayout,
	}
}

// ReportOptions converts the report settings.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		RoundPlaces:  int32(c.Report.Round),
		IncludeTotal: c.Report.IncludeTotal,
	}
}

// ChartOptions converts the chart settings. The backend is validated by the caller.
func (c *Config) ChartOptions() chart.Options {
	return chart.Options{
		Backend: chart.Backend(strings.ToLower(c.Chart.Backend)),
		Dir:     c.Chart.Dir,
		Width:   c.Chart.Width,
		Height:  c.Chart.Height,
		Open:    c.Chart.Open,
	}
}

func parseDelimiter(s string) rune {
	switch strings.ToLower(s) {
	case "":
		return 0
	case "tab", `\t`:
		return '\t'
	}
	return []rune(s)[0]
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".salekit"
	}
	return filepath.Join(home, ".salekit")
}
