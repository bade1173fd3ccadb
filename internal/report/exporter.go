package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/klytics/salekit/internal/formats/xlsx"
)

// ErrExportUnavailable marks a workbook writer that cannot run in this
// environment. The exporter answers it by falling back to CSV files.
var ErrExportUnavailable = errors.New("spreadsheet writer unavailable")

// Format selects the report file format.
type Format string

const (
	// FormatAuto writes a workbook and falls back to CSV when the writer is unavailable.
	FormatAuto Format = "auto"
	// FormatXLSX writes a workbook and never falls back.
	FormatXLSX Format = "xlsx"
	// FormatCSV writes the three CSV files only.
	FormatCSV Format = "csv"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (supported: auto, xlsx, csv)", s)
	}
}

// WorkbookWriter saves a workbook to path.
type WorkbookWriter interface {
	WriteWorkbook(wb *xlsx.Workbook, path string) error
}

// ExcelWriter writes .xlsx files through excelize. It never reports
// ErrExportUnavailable, so the auto CSV fallback applies to injected writers
// and to an exporter without one.
type ExcelWriter struct{}

// WriteWorkbook implements WorkbookWriter.
func (ExcelWriter) WriteWorkbook(wb *xlsx.Workbook, path string) error {
	return xlsx.WriteFile(wb, path)
}

// Exporter writes a bundle to disk.
type Exporter struct {
	Format Format
	// Workbook may be nil, which counts as an unavailable writer.
	Workbook WorkbookWriter
	Logger   logrus.FieldLogger
}

// NewExporter returns an exporter using the excelize writer.
func NewExporter(format Format) *Exporter {
	return &Exporter{
		Format:   format,
		Workbook: ExcelWriter{},
		Logger:   logrus.StandardLogger(),
	}
}

// Result describes what an export wrote.
type Result struct {
	Format   Format   `json:"format"`
	Files    []string `json:"files"`
	FellBack bool     `json:"fellBack"`
}

// Export writes b to path. CSV output goes to the directory containing path.
func (e *Exporter) Export(b *Bundle, path string) (*Result, error) {
	if b == nil {
		return nil, errors.New("nothing to export: report bundle is empty")
	}
	format := e.Format
	if format == "" {
		format = FormatAuto
	}

	if format == FormatCSV {
		return e.exportCSV(b, filepath.Dir(path), false)
	}

	err := e.exportWorkbook(b, path)
	if err == nil {
		return &Result{Format: FormatXLSX, Files: []string{path}}, nil
	}
	if format == FormatAuto && errors.Is(err, ErrExportUnavailable) {
		e.logger().WithError(err).Warn("No Excel writer available, using CSV format instead")
		return e.exportCSV(b, filepath.Dir(path), true)
	}
	return nil, err
}

func (e *Exporter) exportWorkbook(b *Bundle, path string) error {
	if e.Workbook == nil {
		return ErrExportUnavailable
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create output directory: %w", err)
		}
	}
	return e.Workbook.WriteWorkbook(b.Workbook(), path)
}

// exportCSV writes one file per sheet. If any file fails, the ones already
// written are removed so a partial report is never left behind.
func (e *Exporter) exportCSV(b *Bundle, dir string, fellBack bool) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create output directory: %w", err)
	}

	wb := b.Workbook()
	names := map[string]string{
		SheetSummary:  SummaryCSV,
		SheetProducts: ProductsCSV,
		SheetDaily:    DailyCSV,
	}

	res := &Result{Format: FormatCSV, FellBack: fellBack}
	for _, s := range wb.Sheets {
		path := filepath.Join(dir, names[s.Name])
		if err := writeCSV(path, s.Rows); err != nil {
			for _, written := range res.Files {
				if rmErr := os.Remove(written); rmErr != nil {
					e.logger().WithError(rmErr).Warn("could not remove partial CSV output")
				}
			}
			return nil, err
		}
		res.Files = append(res.Files, path)
	}
	return res, nil
}

func writeCSV(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) logger() logrus.FieldLogger {
	if e.Logger == nil {
		return logrus.StandardLogger()
	}
	return e.Logger
}
