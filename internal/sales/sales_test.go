package sales

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/klytics/salekit/internal/formats/xlsx"
)

func writeCSV(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	return path
}

func sampleRows() [][]string {
	return [][]string{
		{"Date", "Product", "Sales"},
		{"2024-01-01", "A", "10"},
		{"2024-01-01", "B", "5"},
		{"2024-01-02", "A", "20"},
		{"", "A", "999"},
	}
}

func loadSample(t *testing.T) *Table {
	t.Helper()
	path := writeCSV(t, t.TempDir(), "retail_sales.csv", sampleRows())
	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func day(s string) time.Time {
	ts, _ := time.Parse("2006-01-02", s)
	return ts
}

func TestWorkedExample(t *testing.T) {
	tbl := loadSample(t)

	removed, err := tbl.Clean()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if tbl.Len() != 3 {
		t.Fatalf("retained = %d, want 3", tbl.Len())
	}

	totals := tbl.TotalsByProduct()
	if len(totals) != 2 {
		t.Fatalf("expected 2 products, got %d", len(totals))
	}
	if totals[0].Product != "A" || !totals[0].Total.Equal(decimal.NewFromInt(30)) {
		t.Errorf("A total = %s %s", totals[0].Product, totals[0].Total)
	}
	if totals[1].Product != "B" || !totals[1].Total.Equal(decimal.NewFromInt(5)) {
		t.Errorf("B total = %s %s", totals[1].Product, totals[1].Total)
	}

	best, err := tbl.BestSellingProduct()
	if err != nil {
		t.Fatal(err)
	}
	if best != "A" {
		t.Errorf("best = %q, want A", best)
	}

	daily := tbl.DailyTotals()
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %d", len(daily))
	}
	if !daily[0].Date.Equal(day("2024-01-01")) || !daily[0].Total.Equal(decimal.NewFromInt(15)) {
		t.Errorf("day 1 = %v %s", daily[0].Date, daily[0].Total)
	}
	if !daily[1].Date.Equal(day("2024-01-02")) || !daily[1].Total.Equal(decimal.NewFromInt(20)) {
		t.Errorf("day 2 = %v %s", daily[1].Date, daily[1].Total)
	}

	avg, err := tbl.AverageDailySales()
	if err != nil {
		t.Fatal(err)
	}
	if got := avg.Round(2).String(); got != "11.67" {
		t.Errorf("average = %s, want 11.67", got)
	}

	mean, err := tbl.MeanDailyTotal()
	if err != nil {
		t.Fatal(err)
	}
	if got := mean.String(); got != "17.5" {
		t.Errorf("mean daily total = %s, want 17.5", got)
	}
}

func TestTotalsConserveSales(t *testing.T) {
	tbl := NewTable([]Record{
		{Date: day("2024-02-01"), Product: "X", Sales: ParseAmount("0.1")},
		{Date: day("2024-02-01"), Product: "Y", Sales: ParseAmount("0.2")},
		{Date: day("2024-02-02"), Product: "X", Sales: ParseAmount("0.7")},
		{Date: day("2024-02-03"), Product: "Z", Sales: ParseAmount("1234.56")},
	})

	var sum decimal.Decimal
	for _, pt := range tbl.TotalsByProduct() {
		sum = sum.Add(pt.Total)
	}
	if !sum.Equal(tbl.TotalSales()) {
		t.Errorf("product totals sum to %s, table total is %s", sum, tbl.TotalSales())
	}

	var daySum decimal.Decimal
	for _, d := range tbl.DailyTotals() {
		daySum = daySum.Add(d.Total)
	}
	if !daySum.Equal(tbl.TotalSales()) {
		t.Errorf("daily totals sum to %s, table total is %s", daySum, tbl.TotalSales())
	}
}

func TestCleanIdempotent(t *testing.T) {
	tbl := loadSample(t)
	if _, err := tbl.Clean(); err != nil {
		t.Fatal(err)
	}
	first := tbl.Len()

	removed, err := tbl.Clean()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 || tbl.Len() != first {
		t.Errorf("second clean removed %d rows (len %d -> %d)", removed, first, tbl.Len())
	}
}

func TestCleanDropsEachMissingField(t *testing.T) {
	dir := t.TempDir()
	path := writeCSV(t, dir, "data.csv", [][]string{
		{"Product", "Sales", "Date"},
		{"A", "10", "2024-01-01"},
		{"", "10", "2024-01-01"},
		{"A", "n/a", "2024-01-01"},
		{"A", "10", "not a date"},
		{"  ", "10", "2024-01-01"},
	})

	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	removed, err := tbl.Clean()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 4 || tbl.Len() != 1 {
		t.Errorf("removed %d, kept %d; want 4 and 1", removed, tbl.Len())
	}
	for _, r := range tbl.Records {
		if !r.Complete() {
			t.Errorf("retained incomplete record on line %d", r.Line)
		}
	}
}

func TestBestSellingTieBreak(t *testing.T) {
	tbl := NewTable([]Record{
		{Date: day("2024-01-01"), Product: "Pears", Sales: ParseAmount("10")},
		{Date: day("2024-01-01"), Product: "Apples", Sales: ParseAmount("10")},
		{Date: day("2024-01-01"), Product: "Figs", Sales: ParseAmount("3")},
	})

	best, err := tbl.BestSellingProduct()
	if err != nil {
		t.Fatal(err)
	}
	if best != "Apples" {
		t.Errorf("best = %q, want Apples", best)
	}
}

func TestBestSellingIsMaximal(t *testing.T) {
	tbl := loadSample(t)
	tbl.Clean()

	best, err := tbl.BestSellingProduct()
	if err != nil {
		t.Fatal(err)
	}
	var bestTotal decimal.Decimal
	found := false
	for _, pt := range tbl.TotalsByProduct() {
		if pt.Product == best {
			bestTotal = pt.Total
			found = true
		}
	}
	if !found {
		t.Fatalf("best product %q not in totals", best)
	}
	for _, pt := range tbl.TotalsByProduct() {
		if pt.Total.GreaterThan(bestTotal) {
			t.Errorf("%s (%s) beats best %s (%s)", pt.Product, pt.Total, best, bestTotal)
		}
	}
}

func TestEmptyData(t *testing.T) {
	tbl := NewTable(nil)

	if _, err := tbl.BestSellingProduct(); !errors.Is(err, ErrEmptyData) {
		t.Errorf("BestSellingProduct err = %v, want ErrEmptyData", err)
	}
	if _, err := tbl.AverageDailySales(); !errors.Is(err, ErrEmptyData) {
		t.Errorf("AverageDailySales err = %v, want ErrEmptyData", err)
	}
	if _, err := tbl.MeanDailyTotal(); !errors.Is(err, ErrEmptyData) {
		t.Errorf("MeanDailyTotal err = %v, want ErrEmptyData", err)
	}
	if len(tbl.TotalsByProduct()) != 0 || len(tbl.DailyTotals()) != 0 {
		t.Error("expected empty groupings")
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"), LoadOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLoadMissingSales(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.csv", [][]string{
		{"Date", "Product", "Amount"},
		{"2024-01-01", "A", "10"},
	})

	_, err := Load(path, LoadOptions{})
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatal("expected *SchemaError")
	}
	if len(se.Missing) != 1 || se.Missing[0] != "Sales" {
		t.Errorf("missing = %v, want [Sales]", se.Missing)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, LoadOptions{}); !errors.Is(err, ErrSchema) {
		t.Errorf("err = %v, want ErrSchema", err)
	}
}

func TestCleanWithoutProductColumn(t *testing.T) {
	path := writeCSV(t, t.TempDir(), "data.csv", [][]string{
		{"Date", "Sales"},
		{"2024-01-01", "10"},
	})

	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatalf("load should succeed without Product: %v", err)
	}
	_, err = tbl.Clean()
	var se *SchemaError
	if !errors.As(err, &se) || se.Missing[0] != "Product" {
		t.Errorf("err = %v, want schema error for Product", err)
	}
}

func TestLoadCustomColumnsAndDelimiter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	content := "\ufeffday;item;amount\n2024-05-01;Tea;2.50\n2024-05-01;Tea;1.25\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path, LoadOptions{
		Columns:   Columns{Date: "day", Product: "item", Sales: "amount"},
		Delimiter: ';',
	})
	if err != nil {
		t.Fatal(err)
	}
	if removed, _ := tbl.Clean(); removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
	totals := tbl.TotalsByProduct()
	if len(totals) != 1 || totals[0].Total.String() != "3.75" {
		t.Errorf("totals = %+v", totals)
	}
}

func TestLoadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.tsv")
	content := "Date\tProduct\tSales\n2024-05-01\tTea\t4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, err := Load(path, LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 1 || !tbl.Records[0].Sales.Valid {
		t.Errorf("unexpected records: %+v", tbl.Records)
	}
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{{
		Name: "Transactions",
		Rows: [][]string{
			{"Date", "Product", "Sales"},
			{"2024-01-01", "A", "10"},
			{"2024-01-02", "B", "7.5"},
			{"", "C", "1"},
		},
		Types: []xlsx.CellType{xlsx.CellDate, xlsx.CellText, xlsx.CellNumber},
	}}}
	if err := xlsx.WriteFile(wb, path); err != nil {
		t.Fatal(err)
	}

	tbl, err := Load(path, LoadOptions{Sheet: "Transactions"})
	if err != nil {
		t.Fatal(err)
	}
	removed, err := tbl.Clean()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if !tbl.Records[0].Date.Equal(day("2024-01-01")) {
		t.Errorf("date = %v, want 2024-01-01", tbl.Records[0].Date)
	}
	if tbl.TotalSales().String() != "17.5" {
		t.Errorf("total = %s, want 17.5", tbl.TotalSales())
	}
}

func TestParseDate(t *testing.T) {
	want := day("2024-03-09")
	for _, in := range []string{
		"2024-03-09",
		"2024/03/09",
		"2024-03-09 14:30:00",
		"2024-03-09T14:30:00Z",
		"03/09/2024",
		"3/9/2024",
		"09-Mar-2024",
		"Mar 9, 2024",
		"9 Mar 2024",
	} {
		if got := ParseDate(in, "", false); !got.Equal(want) {
			t.Errorf("ParseDate(%q) = %v, want %v", in, got, want)
		}
	}

	if got := ParseDate("09.03.2024", "02.01.2006", false); !got.Equal(want) {
		t.Errorf("custom layout: got %v", got)
	}
	if got := ParseDate("45360", "", true); !got.Equal(want) {
		t.Errorf("excel serial: got %v", got)
	}
	for _, bad := range []string{"", "yesterday", "2024-13-40", "45360"} {
		if got := ParseDate(bad, "", false); !got.IsZero() {
			t.Errorf("ParseDate(%q) = %v, want zero", bad, got)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]string{
		"10":     "10",
		" 2.50 ": "2.5",
		"-3":     "-3",
		"1e2":    "100",
	}
	for in, want := range cases {
		got := ParseAmount(in)
		if !got.Valid || got.Decimal.String() != want {
			t.Errorf("ParseAmount(%q) = %v, want %s", in, got, want)
		}
	}
	for _, bad := range []string{"", "abc", "$10", "1,000", "NaN"} {
		if ParseAmount(bad).Valid {
			t.Errorf("ParseAmount(%q) should be invalid", bad)
		}
	}
}

func TestSchemaErrorMessage(t *testing.T) {
	err := &SchemaError{Source: "in.csv", Missing: []string{"Date", "Sales"}, Found: []string{"x"}}
	if !strings.Contains(err.Error(), `"Date", "Sales"`) {
		t.Errorf("unexpected message: %s", err)
	}
}
