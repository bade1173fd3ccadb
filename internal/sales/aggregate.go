package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProductTotal is the summed sales of one product.
type ProductTotal struct {
	Product string          `json:"product" yaml:"product"`
	Total   decimal.Decimal `json:"total" yaml:"total"`
}

// DailyTotal is the summed sales of one calendar day.
type DailyTotal struct {
	Date  time.Time       `json:"date" yaml:"date"`
	Total decimal.Decimal `json:"total" yaml:"total"`
}

// TotalsByProduct sums Sales per product, ordered by product name.
// Records missing Product or Sales are skipped.
func (t *Table) TotalsByProduct() []ProductTotal {
	sums := make(map[string]decimal.Decimal)
	for _, r := range t.Records {
		if r.Product == "" || !r.Sales.Valid {
			continue
		}
		sums[r.Product] = sums[r.Product].Add(r.Sales.Decimal)
	}

	totals := make([]ProductTotal, 0, len(sums))
	for p, s := range sums {
		totals = append(totals, ProductTotal{Product: p, Total: s})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Product < totals[j].Product
	})
	return totals
}

// BestSellingProduct returns the product with the highest total. Equal totals
// resolve to the lexicographically smallest product name.
func (t *Table) BestSellingProduct() (string, error) {
	totals := t.TotalsByProduct()
	if len(totals) == 0 {
		return "", ErrEmptyData
	}
	return bestOf(totals), nil
}

func bestOf(totals []ProductTotal) string {
	best := totals[0]
	for _, pt := range totals[1:] {
		// totals are name-ordered, so strictly greater keeps the earliest name on ties
		if pt.Total.GreaterThan(best.Total) {
			best = pt
		}
	}
	return best.Product
}

// AverageDailySales is the mean Sales value over the retained records. It is a
// per-record mean; see MeanDailyTotal for the mean of per-day totals.
func (t *Table) AverageDailySales() (decimal.Decimal, error) {
	var (
		sum decimal.Decimal
		n   int64
	)
	for _, r := range t.Records {
		if !r.Sales.Valid {
			continue
		}
		sum = sum.Add(r.Sales.Decimal)
		n++
	}
	if n == 0 {
		return decimal.Zero, ErrEmptyData
	}
	return sum.Div(decimal.NewFromInt(n)), nil
}

// MeanDailyTotal is the mean of DailyTotals.
func (t *Table) MeanDailyTotal() (decimal.Decimal, error) {
	daily := t.DailyTotals()
	if len(daily) == 0 {
		return decimal.Zero, ErrEmptyData
	}
	var sum decimal.Decimal
	for _, d := range daily {
		sum = sum.Add(d.Total)
	}
	return sum.Div(decimal.NewFromInt(int64(len(daily)))), nil
}

// DailyTotals sums Sales per calendar date in chronological order.
func (t *Table) DailyTotals() []DailyTotal {
	sums := make(map[time.Time]decimal.Decimal)
	for _, r := range t.Records {
		if r.Date.IsZero() || !r.Sales.Valid {
			continue
		}
		day := truncateDay(r.Date)
		sums[day] = sums[day].Add(r.Sales.Decimal)
	}

	daily := make([]DailyTotal, 0, len(sums))
	for d, s := range sums {
		daily = append(daily, DailyTotal{Date: d, Total: s})
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})
	return daily
}

// TotalSales sums every valid Sales value in the table.
func (t *Table) TotalSales() decimal.Decimal {
	var sum decimal.Decimal
	for _, r := range t.Records {
		if r.Sales.Valid {
			sum = sum.Add(r.Sales.Decimal)
		}
	}
	return sum
}
