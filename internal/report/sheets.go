package report

import (
	"github.com/klytics/salekit/internal/formats/xlsx"
)

// Sheet names used in the workbook.
const (
	SheetSummary  = "Summary"
	SheetProducts = "Sales Per Product"
	SheetDaily    = "Daily Sales Trend"
)

// CSV file names written when the workbook writer is unavailable.
const (
	SummaryCSV  = "sales_summary.csv"
	ProductsCSV = "product_sales.csv"
	DailyCSV    = "daily_sales.csv"
)

// Workbook lays the bundle out as the three report sheets.
func (b *Bundle) Workbook() *xlsx.Workbook {
	return &xlsx.Workbook{Sheets: []xlsx.Sheet{
		b.summarySheet(),
		b.productSheet(),
		b.dailySheet(),
	}}
}

func (b *Bundle) summarySheet() xlsx.Sheet {
	rows := [][]string{
		{"Metric", "Value"},
		{"Best Selling Product", b.BestSellingProduct},
		{"Average Daily Sales", b.AverageDailySales.String()},
		{"Mean Daily Total", b.MeanDailyTotal.String()},
	}
	if b.IncludeTotal {
		rows = append(rows, []string{"Total Sales", b.TotalSales.String()})
	}
	// the best seller row holds a product name, which may look numeric
	return xlsx.Sheet{
		Name:     SheetSummary,
		Rows:     rows,
		Types:    []xlsx.CellType{xlsx.CellText, xlsx.CellNumber},
		RowTypes: map[int][]xlsx.CellType{1: {xlsx.CellText, xlsx.CellText}},
	}
}

func (b *Bundle) productSheet() xlsx.Sheet {
	rows := [][]string{{"Product", "Total Sales"}}
	for _, pt := range b.ProductTotals {
		rows = append(rows, []string{pt.Product, pt.Total.String()})
	}
	return xlsx.Sheet{Name: SheetProducts, Rows: rows, Types: []xlsx.CellType{xlsx.CellText, xlsx.CellNumber}}
}

func (b *Bundle) dailySheet() xlsx.Sheet {
	rows := [][]string{{"Date", "Total Sales"}}
	for _, d := range b.DailyTotals {
		rows = append(rows, []string{d.Date.Format("2006-01-02"), d.Total.String()})
	}
	return xlsx.Sheet{Name: SheetDaily, Rows: rows, Types: []xlsx.CellType{xlsx.CellDate, xlsx.CellNumber}}
}
