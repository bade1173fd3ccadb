package xlsx

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	dateFormat   = "yyyy-mm-dd"
	numberFormat = "#,##0.00"
)

// WriteFile creates a new .xlsx file from the given workbook data. The first
// row of each sheet is treated as a bold header.
func WriteFile(wb *Workbook, path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("could not close %s: %w", path, cerr)
		}
	}()

	styles, err := newStyles(f)
	if err != nil {
		return err
	}

	for i, sheet := range wb.Sheets {
		sheetName := sheet.Name
		if sheetName == "" {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
		}

		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				return fmt.Errorf("could not rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("could not create sheet %q: %w", sheetName, err)
		}

		if err := writeSheet(f, sheetName, sheet, styles); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}
	return nil
}

type styleSet struct {
	header int
	date   int
	number int
}

func newStyles(f *excelize.File) (styleSet, error) {
	var s styleSet
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, fmt.Errorf("could not create header style: %w", err)
	}
	datFmt := dateFormat
	if s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &datFmt}); err != nil {
		return s, fmt.Errorf("could not create date style: %w", err)
	}
	numFmt := numberFormat
	if s.number, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return s, fmt.Errorf("could not create number style: %w", err)
	}
	return s, nil
}

func writeSheet(f *excelize.File, name string, sheet Sheet, styles styleSet) error {
	widths := make(map[int]int)

	for rowIdx, row := range sheet.Rows {
		for colIdx, raw := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}

			value, style := cellValue(raw, sheet.cellType(rowIdx, colIdx), rowIdx == 0, styles)
			if err := f.SetCellValue(name, cellName, value); err != nil {
				return fmt.Errorf("could not set cell %s: %w", cellName, err)
			}
			if style != 0 {
				if err := f.SetCellStyle(name, cellName, cellName, style); err != nil {
					return fmt.Errorf("could not style cell %s: %w", cellName, err)
				}
			}
			if len(raw) > widths[colIdx] {
				widths[colIdx] = len(raw)
			}
		}
	}

	for col, w := range widths {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("invalid column: %w", err)
		}
		if err := f.SetColWidth(name, colName, colName, float64(min(w+4, 60))); err != nil {
			return fmt.Errorf("could not size column %s: %w", colName, err)
		}
	}
	return nil
}

func (s Sheet) cellType(row, col int) CellType {
	types := s.Types
	if override, ok := s.RowTypes[row]; ok {
		types = override
	}
	if col < len(types) {
		return types[col]
	}
	return CellText
}

func cellValue(raw string, typ CellType, header bool, styles styleSet) (any, int) {
	if header {
		return raw, styles.header
	}
	switch typ {
	case CellNumber:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v, styles.number
		}
	case CellDate:
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			return ts, styles.date
		}
	}
	return raw, 0
}
