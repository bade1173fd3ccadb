//go:build ignore

// This program generates the sample sales files used by benchmarks and manual runs.
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/klytics/salekit/internal/formats/xlsx"
)

var products = []string{"Apples", "Bananas", "Cherries", "Dates", "Elderberries", "Figs"}

func main() {
	rows := sampleRows()

	if err := writeCSV("testdata/retail_sales.csv", rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating retail_sales.csv: %v\n", err)
		os.Exit(1)
	}

	wb := &xlsx.Workbook{Sheets: []xlsx.Sheet{{
		Name:  "Sales",
		Rows:  rows,
		Types: []xlsx.CellType{xlsx.CellDate, xlsx.CellText, xlsx.CellNumber},
	}}}
	if err := xlsx.WriteFile(wb, "testdata/retail_sales.xlsx"); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating retail_sales.xlsx: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

// sampleRows returns 60 days of sales with a few deliberately incomplete rows.
func sampleRows() [][]string {
	r := rand.New(rand.NewSource(42))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := [][]string{{"Date", "Product", "Sales"}}
	for d := 0; d < 60; d++ {
		date := base.AddDate(0, 0, d).Format("2006-01-02")
		for n := 0; n < 3+r.Intn(4); n++ {
			day := date
			product := products[r.Intn(len(products))]
			amount := fmt.Sprintf("%.2f", 5+r.Float64()*95)
			switch r.Intn(40) {
			case 0:
				product = ""
			case 1:
				amount = ""
			case 2:
				day = "not a date"
			}
			rows = append(rows, []string{day, product, amount})
		}
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}
