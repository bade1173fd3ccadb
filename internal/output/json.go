package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/klytics/salekit/cmd/version"
)

// Exit codes for consistent error reporting.
const (
	ExitOK          = 0 // success
	ExitUserError   = 1 // bad flags, missing file, bad schema
	ExitSystemError = 2 // IO error while writing outputs
)

// JSONResult is the standard JSON output envelope for all commands.
type JSONResult struct {
	OK      bool   `json:"ok"`
	Command string `json:"command"`
	Version string `json:"version"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func envelope(cmd string, data any) JSONResult {
	return JSONResult{
		OK:      true,
		Command: cmd,
		Version: version.Version,
		Data:    data,
	}
}

// PrintJSON writes a standard success JSON result to stdout.
func PrintJSON(cmd string, data any) error {
	return NewWriter(FormatJSON).WriteJSON(envelope(cmd, data))
}

// PrintJSONError writes a standard error JSON result to stdout.
func PrintJSONError(cmd string, err error, code int) error {
	result := JSONResult{
		OK:      false,
		Command: cmd,
		Version: version.Version,
		Error:   err.Error(),
		Code:    code,
	}
	if encErr := NewWriterTo(os.Stdout, FormatJSON).WriteJSON(result); encErr != nil {
		return fmt.Errorf("could not encode JSON error: %w", encErr)
	}
	return nil
}

// ExitCode maps an error to a process exit code. Failures to read or write
// existing paths count as system errors; everything else is the user's input.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) && !errors.Is(err, fs.ErrNotExist) {
		return ExitSystemError
	}
	return ExitUserError
}
