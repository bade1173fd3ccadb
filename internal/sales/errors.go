package sales

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when the input file does not exist.
	ErrNotFound = errors.New("input file not found")

	// ErrSchema is returned when required columns are absent.
	ErrSchema = errors.New("input is missing required columns")

	// ErrEmptyData is returned when a metric needs at least one retained record.
	ErrEmptyData = errors.New("no sales records to analyze")
)

// SchemaError lists the required columns that were not found in the input header.
type SchemaError struct {
	Source  string
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("%s must contain columns %s", e.Source, quoteList(e.Missing))
	if len(e.Found) > 0 {
		msg += fmt.Sprintf(" — found %s", quoteList(e.Found))
	}
	return msg
}

// Unwrap lets errors.Is(err, ErrSchema) match.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

func quoteList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}
