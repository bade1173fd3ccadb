package sales

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/klytics/salekit/internal/formats/xlsx"
)

// LoadOptions controls how an input file is read and coerced.
type LoadOptions struct {
	Columns    Columns
	Delimiter  rune   // 0 picks by extension: tab for .tsv, comma otherwise
	Sheet      string // .xlsx only; empty reads the first sheet
	DateLayout string // tried before the built-in layouts
}

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2006.01.02",
}

// Load reads a delimited text or .xlsx file into a Table. Dates and sales
// amounts that cannot be parsed are kept as missing values.
func Load(path string, opts LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s — check that the path is correct", ErrNotFound, path)
		}
		return nil, fmt.Errorf("could not access %s: %w", path, err)
	}

	if opts.Columns == (Columns{}) {
		opts.Columns = DefaultColumns()
	}

	var (
		rows       [][]string
		excelDates bool
		err        error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readSheet(path, opts.Sheet)
		excelDates = true
	default:
		rows, err = readDelimited(path, opts.Delimiter)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(path, rows, opts, excelDates)
}

func readDelimited(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	if delim == 0 {
		delim = ','
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			delim = '\t'
		}
	}

	reader := csv.NewReader(f)
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readSheet(path, name string) ([][]string, error) {
	wb, err := xlsx.ReadFileWith(path, xlsx.ReadOptions{RawValues: true})
	if err != nil {
		return nil, err
	}
	if name != "" {
		s, err := wb.GetSheet(name)
		if err != nil {
			return nil, err
		}
		return s.Rows, nil
	}
	if len(wb.Sheets) == 0 {
		return nil, nil
	}
	return wb.Sheets[0].Rows, nil
}

func buildTable(source string, rows [][]string, opts LoadOptions, excelDates bool) (*Table, error) {
	t := &Table{Source: source, names: opts.Columns}

	var header []string
	if len(rows) > 0 {
		header = rows[0]
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		t.Columns = append(t.Columns, h)
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	dateIdx, hasDate := index[opts.Columns.Date]
	salesIdx, hasSales := index[opts.Columns.Sales]
	productIdx, hasProduct := index[opts.Columns.Product]
	t.hasProduct = hasProduct

	var missing []string
	if !hasDate {
		missing = append(missing, opts.Columns.Date)
	}
	if !hasSales {
		missing = append(missing, opts.Columns.Sales)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: source, Missing: missing, Found: t.Columns}
	}

	for i, row := range rows[1:] {
		rec := Record{
			Line:  i + 2,
			Date:  ParseDate(cell(row, dateIdx), opts.DateLayout, excelDates),
			Sales: ParseAmount(cell(row, salesIdx)),
		}
		if hasProduct {
			rec.Product = strings.TrimSpace(cell(row, productIdx))
		}
		t.Records = append(t.Records, rec)
	}

	return t, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

// ParseDate coerces s into a calendar date in UTC. It returns the zero time
// when nothing matches. With excelSerial set, bare numbers are read as Excel
// date serials.
func ParseDate(s, layout string, excelSerial bool) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	layouts := dateLayouts
	if layout != "" {
		layouts = append([]string{layout}, dateLayouts...)
	}
	for _, l := range layouts {
		if ts, err := time.Parse(l, s); err == nil {
			return truncateDay(ts)
		}
	}

	if excelSerial {
		if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
			if ts, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return truncateDay(ts)
			}
		}
	}
	return time.Time{}
}

func truncateDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseAmount coerces s into a decimal amount. Empty or malformed input yields
// an invalid NullDecimal.
func ParseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
