// Package money formats amounts the same way on screen and in reports.
package money

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is the label printed in front of every amount.
const Currency = "PHP"

var printer = message.NewPrinter(language.English)

// Format renders d with two decimals, rounding half away from zero, grouped thousands
// and the currency label: 1234.5 → "PHP 1,234.50".
func Format(d decimal.Decimal) string {
	return Currency + " " + Plain(d)
}

// Plain is Format without the currency label. Digits come from the decimal itself,
// so amounts of any size keep every digit and cent.
func Plain(d decimal.Decimal) string {
	r := d.Round(2)
	whole, cents, _ := strings.Cut(r.Abs().StringFixed(2), ".")
	out := group(whole) + "." + cents
	if r.IsNegative() {
		out = "-" + out
	}
	return out
}

// group inserts thousands separators into a string of digits.
func group(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return printer.Sprint(number.Decimal(n))
	}
	// past int64
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Sum adds up amounts.
func Sum(ds ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, ds...)
}
