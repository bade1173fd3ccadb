// Package report turns a cleaned sales table into the summary bundle and
// writes it out as a multi-sheet workbook or a set of CSV files.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/klytics/salekit/internal/sales"
)

// Options controls how the bundle scalars are derived.
type Options struct {
	// RoundPlaces rounds the average figures; a negative value keeps full precision.
	RoundPlaces  int32 `json:"roundPlaces"`
	IncludeTotal bool  `json:"includeTotal"`
}

// DefaultOptions rounds to cents and includes the total sales row.
func DefaultOptions() Options {
	return Options{RoundPlaces: 2, IncludeTotal: true}
}

// Bundle is everything a report shows for one run.
type Bundle struct {
	Source             string               `json:"source" yaml:"source"`
	RecordCount        int                  `json:"recordCount" yaml:"record_count"`
	Days               int                  `json:"days" yaml:"days"`
	BestSellingProduct string               `json:"bestSellingProduct" yaml:"best_selling_product"`
	AverageDailySales  decimal.Decimal      `json:"averageDailySales" yaml:"average_daily_sales"`
	MeanDailyTotal     decimal.Decimal      `json:"meanDailyTotal" yaml:"mean_daily_total"`
	TotalSales         decimal.Decimal      `json:"totalSales" yaml:"total_sales"`
	IncludeTotal       bool                 `json:"-" yaml:"-"`
	ProductTotals      []sales.ProductTotal `json:"productTotals" yaml:"product_totals"`
	DailyTotals        []sales.DailyTotal   `json:"dailyTotals" yaml:"daily_totals"`
}

// Build computes the bundle from a cleaned table. It fails with
// sales.ErrEmptyData when no records are left.
func Build(t *sales.Table, opts Options) (*Bundle, error) {
	best, err := t.BestSellingProduct()
	if err != nil {
		return nil, fmt.Errorf("best selling product: %w", err)
	}
	avg, err := t.AverageDailySales()
	if err != nil {
		return nil, fmt.Errorf("average daily sales: %w", err)
	}
	mean, err := t.MeanDailyTotal()
	if err != nil {
		return nil, fmt.Errorf("mean daily total: %w", err)
	}

	daily := t.DailyTotals()
	b := &Bundle{
		Source:             t.Source,
		RecordCount:        t.Len(),
		Days:               len(daily),
		BestSellingProduct: best,
		AverageDailySales:  round(avg, opts.RoundPlaces),
		MeanDailyTotal:     round(mean, opts.RoundPlaces),
		TotalSales:         t.TotalSales(),
		IncludeTotal:       opts.IncludeTotal,
		ProductTotals:      t.TotalsByProduct(),
		DailyTotals:        daily,
	}
	return b, nil
}

func round(d decimal.Decimal, places int32) decimal.Decimal {
	if places < 0 {
		return d
	}
	return d.Round(places)
}
