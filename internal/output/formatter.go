// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format represents an output format.
type Format int

const (
	// FormatText is colored, human-readable output.
	FormatText Format = iota
	// FormatJSON wraps results in the JSON envelope.
	FormatJSON
	// FormatYAML is YAML output.
	FormatYAML
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest   io.Writer
	format Format
}

// NewWriter creates a new output writer with the given format on stdout.
func NewWriter(format Format) *Writer {
	return NewWriterTo(os.Stdout, format)
}

// NewWriterTo creates a writer for an arbitrary destination.
func NewWriterTo(dest io.Writer, format Format) *Writer {
	return &Writer{
		dest:   dest,
		format: format,
	}
}

// Result writes a command result in the writer's format. Text output is
// produced by the text callback so callers keep control of colors.
func (w *Writer) Result(cmd string, data any, text func(io.Writer) error) error {
	switch w.format {
	case FormatJSON:
		return w.WriteJSON(envelope(cmd, data))
	case FormatYAML:
		return w.WriteYAML(data)
	}
	return text(w.dest)
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v any) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML encodes a value as YAML with two-space indentation.
func (w *Writer) WriteYAML(v any) error {
	enc := yaml.NewEncoder(w.dest)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// WriteError writes an "Error: " prefixed message to dest.
func WriteError(dest io.Writer, format string, args ...any) {
	fmt.Fprintf(dest, "Error: "+format+"\n", args...)
}
