// Package sales holds the in-memory transaction table and the load, clean and
// aggregate steps of the sales report.
package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one transaction row. A zero Date, an empty Product or an invalid
// Sales value marks that field as missing.
type Record struct {
	Line    int                 `json:"line"`
	Date    time.Time           `json:"date"`
	Product string              `json:"product"`
	Sales   decimal.NullDecimal `json:"sales"`
}

// Complete reports whether the record has every field the aggregates need.
func (r Record) Complete() bool {
	return !r.Date.IsZero() && r.Product != "" && r.Sales.Valid
}

// Columns names the header fields the table is built from.
type Columns struct {
	Date    string `json:"date" yaml:"date"`
	Product string `json:"product" yaml:"product"`
	Sales   string `json:"sales" yaml:"sales"`
}

// DefaultColumns returns the standard Date/Product/Sales header names.
func DefaultColumns() Columns {
	return Columns{Date: "Date", Product: "Product", Sales: "Sales"}
}

// Table is the transaction table. Clean mutates Records in place.
type Table struct {
	Source  string   `json:"source"`
	Columns []string `json:"columns"`
	Records []Record `json:"records"`

	names      Columns
	hasProduct bool
}

// NewTable builds a table directly from records, assuming all columns are present.
func NewTable(records []Record) *Table {
	names := DefaultColumns()
	return &Table{
		Columns:    []string{names.Date, names.Product, names.Sales},
		Records:    records,
		names:      names,
		hasProduct: true,
	}
}

// Len returns the number of records currently in the table.
func (t *Table) Len() int {
	return len(t.Records)
}
