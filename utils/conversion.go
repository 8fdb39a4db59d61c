package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a monetary value from the loosely typed fields the
// marketplace API returns. Blank or malformed input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	// Thousands separators show up in some catalog entries ("1,500.00").
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatAmount renders an amount with two fractional digits, the form the
// booking endpoint expects.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
