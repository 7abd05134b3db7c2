// Package pricing computes order totals from reserved unit prices.
package pricing

import "github.com/shopspring/decimal"

type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

func LineTotal(l Line) decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total is the exact sum of quantity * unit price over lines. No rounding is applied.
func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l))
	}
	return total
}
