package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatNumber renders a numeric value for display: whole values become
// grouped integers ("12,345"), fractional values keep two decimals.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NoData
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return printer.Sprintf("%d", int64(f))
	}
	return printer.Sprintf("%.2f", f)
}

// FormatFixed renders with two decimal places regardless of wholeness, for
// averages where "150" and "150.00" should not mix.
func FormatFixed(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return NoData
	}
	return printer.Sprintf("%.2f", f)
}
