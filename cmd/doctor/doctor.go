// Package doctor provides the "salekit doctor" command for checking system health.
package doctor

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/salekit/internal/config"
	"github.com/klytics/salekit/internal/output"
	"github.com/klytics/salekit/internal/sales"
)

// Check represents a single health check result.
type Check struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Message string `json:"message"`
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, input data and environment",
		Long:  "Run diagnostic checks to verify salekit can read its input and write its outputs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(file)
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}
			checks := RunChecks(cfg)

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return output.PrintJSON("doctor", checks)
			}
			return printChecks(cmd.OutOrStdout(), checks)
		},
	}
}

func printChecks(out io.Writer, checks []Check) error {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(out, "salekit doctor")
	fmt.Fprintln(out, "==============")
	fmt.Fprintln(out)

	okCount, warnCount, errCount := 0, 0, 0
	for _, c := range checks {
		var icon string
		switch c.Status {
		case "ok":
			icon = green("✓")
			okCount++
		case "warning":
			icon = yellow("!")
			warnCount++
		case "error":
			icon = red("✗")
			errCount++
		}
		fmt.Fprintf(out, "  %s %s: %s\n", icon, c.Name, c.Message)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	if errCount > 0 {
		return fmt.Errorf("%d check(s) failed", errCount)
	}
	return nil
}

// RunChecks inspects the runtime, the configuration and the input file.
func RunChecks(cfg *config.Config) []Check {
	var checks []Check

	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	if path := config.ConfigPath(); fileExists(path) {
		checks = append(checks, Check{Name: "Config File", Status: "ok", Message: path})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found, using defaults — run 'salekit config set <key> <value>' to create one",
		})
	}

	for _, issue := range config.Validate() {
		if issue.Severity != "error" {
			continue
		}
		checks = append(checks, Check{
			Name:    "Config " + issue.Key,
			Status:  "error",
			Message: fmt.Sprintf("%s — fix: %s", issue.Message, issue.Fix),
		})
	}

	checks = append(checks, inputCheck(cfg))
	checks = append(checks, outputCheck(cfg.Output.Path))

	if cfg.Chart.Open {
		opener := openerCommand()
		if _, err := exec.LookPath(opener); err == nil {
			checks = append(checks, Check{Name: "Chart Viewer", Status: "ok", Message: opener + " found in PATH"})
		} else {
			checks = append(checks, Check{
				Name:    "Chart Viewer",
				Status:  "warning",
				Message: opener + " not found — charts will be written but not opened",
			})
		}
	}

	return checks
}

func inputCheck(cfg *config.Config) Check {
	t, err := sales.Load(cfg.Input.Path, cfg.LoadOptions())
	if err != nil {
		return Check{Name: "Input Data", Status: "error", Message: err.Error()}
	}
	complete := 0
	for _, r := range t.Records {
		if r.Complete() {
			complete++
		}
	}
	if complete == 0 {
		return Check{
			Name:    "Input Data",
			Status:  "warning",
			Message: fmt.Sprintf("%s has %d rows but none are complete", t.Source, t.Len()),
		}
	}
	return Check{
		Name:    "Input Data",
		Status:  "ok",
		Message: fmt.Sprintf("%s: %d rows, %d complete", t.Source, t.Len(), complete),
	}
}

func outputCheck(path string) Check {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Check{Name: "Output Directory", Status: "error", Message: err.Error()}
	}
	f, err := os.CreateTemp(dir, ".salekit-doctor-*")
	if err != nil {
		return Check{Name: "Output Directory", Status: "error", Message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	f.Close()
	os.Remove(f.Name())
	return Check{Name: "Output Directory", Status: "ok", Message: dir + " is writable"}
}

func openerCommand() string {
	switch runtime.GOOS {
	case "windows":
		return "rundll32"
	case "darwin":
		return "open"
	}
	return "xdg-open"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
