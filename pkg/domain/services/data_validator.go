package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/stocktransfer/pkg/domain/dataset"
	"github.com/vsinha/stocktransfer/pkg/domain/entities"
)

// DataValidator normalizes raw inventory tables before computation
type DataValidator struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

// Validate returns a normalized copy of the table. Article values are
// zero-padded and numeric columns are coerced to non-negative numbers;
// every other column passes through unchanged. The input is not modified.
func (v *DataValidator) Validate(table *dataset.Table) *dataset.Table {
	out := table.Clone()

	if col := out.Index(dataset.ColArticle); col >= 0 {
		for _, row := range out.Rows {
			row[col] = string(entities.NormalizeArticle(row[col]))
		}
	}

	for _, name := range dataset.NumericColumns {
		col := out.Index(name)
		if col < 0 {
			continue
		}
		for _, row := range out.Rows {
			row[col] = ParseQuantity(row[col]).String()
		}
	}

	return out
}

// MaxQuantityScale bounds the decimal exponent of a parsed quantity in both directions
const MaxQuantityScale = 28

// ParseQuantity reads a cell as a non-negative quantity. Blank or
// non-numeric text yields zero, and negative values clip to zero.
// A value whose exponent exceeds MaxQuantityScale is out of range and also
// yields zero; fractional digits past MaxQuantityScale are truncated.
func ParseQuantity(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	qty, err := decimal.NewFromString(s)
	if err != nil || qty.IsNegative() {
		return decimal.Zero
	}

	exp := qty.Exponent()
	switch {
	case exp > MaxQuantityScale:
		return decimal.Zero
	case exp < -MaxQuantityScale:
		// a scale longer than the cell itself came from exponent notation
		if -int64(exp) > int64(len(s)) {
			return decimal.Zero
		}
		return qty.Truncate(MaxQuantityScale)
	}
	return qty
}
