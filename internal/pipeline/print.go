package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/klytics/salekit/internal/report"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	dim    = color.New(color.FgHiBlack)
)

func printCleaned(w io.Writer, removed int) {
	green.Fprintf(w, "✓ Cleaned data: removed %d rows with missing values\n", removed)
}

// PrintSummary writes the product totals and headline metrics of a bundle.
func PrintSummary(w io.Writer, b *report.Bundle) {
	bold.Fprintln(w, "\nTotal Sales per Product:")

	width := len("Product")
	for _, pt := range b.ProductTotals {
		width = max(width, len(pt.Product))
	}
	dim.Fprintf(w, "  %-*s  %s\n", width, "Product", "Sales")
	for _, pt := range b.ProductTotals {
		fmt.Fprintf(w, "  %-*s  %s\n", width, pt.Product, pt.Total.String())
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Best Selling Product: %s\n", bold.Sprint(b.BestSellingProduct))
	fmt.Fprintf(w, "Average Daily Sales:  %s\n", b.AverageDailySales.String())
	fmt.Fprintf(w, "Mean Daily Total:     %s\n", b.MeanDailyTotal.String())
	if b.IncludeTotal {
		fmt.Fprintf(w, "Total Sales:          %s\n", b.TotalSales.String())
	}
	dim.Fprintf(w, "%d records over %d days from %s\n", b.RecordCount, b.Days, b.Source)
}

func printCharts(w io.Writer, paths []string, errs []error) {
	for _, p := range paths {
		fmt.Fprintf(w, "Chart saved: %s\n", p)
	}
	for _, err := range errs {
		yellow.Fprintf(w, "Chart skipped: %s\n", err)
	}
}

func printExported(w io.Writer, res *report.Result) {
	if res.FellBack {
		yellow.Fprintln(w, "No Excel writer available. Using CSV format instead.")
	}
	if res.Format == report.FormatXLSX {
		green.Fprintf(w, "✓ Excel report generated successfully: %s\n", res.Files[0])
		return
	}
	green.Fprintf(w, "✓ CSV reports generated successfully: %s\n", strings.Join(res.Files, ", "))
}

func printExportError(w io.Writer, err error) {
	red.Fprintf(w, "Error exporting report: %s\n", err)
}
