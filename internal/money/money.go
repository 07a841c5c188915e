// Package money converts between stored minor units (cents) and the decimal
// major-unit amounts the pace math works with.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CentsToAmount turns 12345 into 123.45.
func CentsToAmount(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// ToCents rounds a major-unit amount half away from zero to whole cents.
// Sums of float tips such as 99.999999999 come back as 10000.
func ToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Round(2).Shift(2).IntPart()
}

// Format renders an amount as "$1,234.50" ("-$3.00" for negatives).
func Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func groupThousands(s string) string {
	var parts []string
	for i := len(s); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		parts = append([]string{s[start:i]}, parts...)
	}
	return strings.Join(parts, ",")
}
