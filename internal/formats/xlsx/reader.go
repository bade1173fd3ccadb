// Package xlsx provides reading and writing capabilities for .xlsx (Excel) files.
package xlsx

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// CellType tells the writer how to store a column's values.
type CellType int

const (
	// CellText stores the value as-is.
	CellText CellType = iota
	// CellNumber stores the value as a number when it parses as one.
	CellNumber
	// CellDate stores a YYYY-MM-DD value as a date cell.
	CellDate
)

// Sheet represents a single worksheet's data. Types, when set, applies per
// column to every row after the header.
type Sheet struct {
	Name  string     `json:"name"`
	Rows  [][]string `json:"rows"`
	Types []CellType `json:"-"`
	// RowTypes overrides Types for individual rows, keyed by row index.
	RowTypes map[int][]CellType `json:"-"`
}

// Workbook represents a parsed Excel file with all its sheets.
type Workbook struct {
	Sheets []Sheet `json:"sheets"`
}

// ReadOptions controls how cell values are returned.
type ReadOptions struct {
	// RawValues returns stored values (e.g. date serials) instead of formatted text.
	RawValues bool
}

// ReadFile reads an .xlsx file and returns its formatted cell text.
func ReadFile(path string) (*Workbook, error) {
	return ReadFileWith(path, ReadOptions{})
}

// ReadFileWith reads an .xlsx file with the given options.
func ReadFileWith(path string, opts ReadOptions) (*Workbook, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		var rows [][]string
		if opts.RawValues {
			rows, err = f.GetRows(name, excelize.Options{RawCellValue: true})
		} else {
			rows, err = f.GetRows(name)
		}
		if err != nil {
			return nil, fmt.Errorf("could not read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}

	return wb, nil
}

// GetSheet returns a specific sheet by name. Returns an error if the sheet is not found.
func (wb *Workbook) GetSheet(name string) (*Sheet, error) {
	for i := range wb.Sheets {
		if wb.Sheets[i].Name == name {
			return &wb.Sheets[i], nil
		}
	}

	available := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		available[i] = s.Name
	}
	return nil, fmt.Errorf("sheet %q not found — available sheets: %v", name, available)
}

// RowCount returns the number of rows that hold at least one non-empty cell.
func (s *Sheet) RowCount() int {
	count := 0
	for _, row := range s.Rows {
		for _, cell := range row {
			if cell != "" {
				count++
				break
			}
		}
	}
	return count
}
