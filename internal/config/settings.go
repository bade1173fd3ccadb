package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/klytics/salekit/internal/chart"
	"github.com/klytics/salekit/internal/report"
)

// ConfigIssue represents a validation finding.
type ConfigIssue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix"`
}

// Keys returns every known configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set sets a config value and saves to disk. Unknown keys are rejected.
func Set(key, value string) error {
	key = strings.ToLower(key)
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("unknown config key %q — run 'salekit config show' for the list", key)
	}
	viper.Set(key, value)
	return SaveConfig()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// ResetConfig deletes the config file and restores defaults.
func ResetConfig() error {
	path := ConfigPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete config: %w", err)
	}
	for k, v := range defaults {
		viper.Set(k, v)
	}
	return nil
}

// SaveConfig writes the current config to ConfigPath, which is the file
// named by --config when one was given.
func SaveConfig() error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(configDir(), "config.yaml")
}

// ShowConfig returns a formatted string of the current configuration.
func ShowConfig() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n", ConfigPath()))

	section := ""
	for _, k := range Keys() {
		group, name, _ := strings.Cut(k, ".")
		if group != section {
			section = group
			sb.WriteString(fmt.Sprintf("\n%s\n", group))
		}
		sb.WriteString(fmt.Sprintf("  %-14s %s\n", name+":", viper.GetString(k)))
	}

	return sb.String()
}

// Validate checks config values and returns a list of issues.
func Validate() []ConfigIssue {
	var issues []ConfigIssue

	input := viper.GetString("input.path")
	if _, err := os.Stat(input); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "input.path",
			Severity: "warning",
			Message:  fmt.Sprintf("input file %s does not exist", input),
			Fix:      "salekit config set input.path path/to/sales.csv",
		})
	} else {
		issues = append(issues, ConfigIssue{
			Key:      "input.path",
			Severity: "info",
			Message:  fmt.Sprintf("input file %s found", input),
		})
	}

	if _, err := report.ParseFormat(viper.GetString("export.format")); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "export.format",
			Severity: "error",
			Message:  err.Error(),
			Fix:      "salekit config set export.format auto",
		})
	}

	if _, err := chart.ParseBackend(viper.GetString("chart.backend")); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "chart.backend",
			Severity: "error",
			Message:  err.Error(),
			Fix:      "salekit config set chart.backend png",
		})
	}

	if _, err := logrus.ParseLevel(viper.GetString("log.level")); err != nil {
		issues = append(issues, ConfigIssue{
			Key:      "log.level",
			Severity: "error",
			Message:  err.Error(),
			Fix:      "salekit config set log.level info",
		})
	}

	if d := viper.GetString("input.delimiter"); len([]rune(d)) > 1 && d != "tab" && d != `\t` {
		issues = append(issues, ConfigIssue{
			Key:      "input.delimiter",
			Severity: "warning",
			Message:  fmt.Sprintf("delimiter %q is longer than one character; only %q will be used", d, []rune(d)[0]),
		})
	}

	if viper.GetInt("chart.width") < 200 || viper.GetInt("chart.height") < 150 {
		issues = append(issues, ConfigIssue{
			Key:      "chart.width",
			Severity: "warning",
			Message:  "chart size is very small; labels may not fit",
		})
	}

	return issues
}

// ToEnv returns all config values as a map of env var name -> value.
func ToEnv() map[string]string {
	env := make(map[string]string)
	replacer := strings.NewReplacer(".", "_")
	for _, k := range Keys() {
		if v := viper.GetString(k); v != "" {
			env[EnvPrefix+"_"+strings.ToUpper(replacer.Replace(k))] = v
		}
	}
	return env
}
