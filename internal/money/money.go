// Package money holds currency arithmetic and display for the checkout.
package money

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const Symbol = "R$"

// Subtotal returns qty * unit computed in decimal, so repeated scans of the
// same price never accumulate binary rounding drift.
func Subtotal(qty int, unit float64) float64 {
	return decimal.NewFromFloat(unit).Mul(decimal.NewFromInt(int64(qty))).InexactFloat64()
}

// Sum adds amounts in decimal.
func Sum(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total.InexactFloat64()
}

// Format renders v the pt-BR way: "R$ 1.234,56".
func Format(v float64) string {
	rounded := decimal.NewFromFloat(v).Round(2).InexactFloat64()
	return Symbol + " " + humanize.FormatFloat("#.###,##", rounded)
}
