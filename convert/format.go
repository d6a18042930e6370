package convert

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

var maxGrouped = decimal.New(1, 18)

// FormatAmount renders an amount with AmountPrecision decimals, "920.00"
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(AmountPrecision)
}

// FormatRate renders a rate with RatePrecision decimals, "0.920000"
func FormatRate(d decimal.Decimal) string {
	return d.StringFixed(RatePrecision)
}

// LocalizeAmount renders an amount with English digit grouping, "1,234.50"
func LocalizeAmount(d decimal.Decimal) string {
	whole := d.Truncate(0)
	frac := d.Sub(whole).Abs().Round(AmountPrecision)

	// rounding the fraction up to a whole unit carries into the integer part
	if frac.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		if d.IsNegative() {
			whole = whole.Sub(decimal.NewFromInt(1))
		} else {
			whole = whole.Add(decimal.NewFromInt(1))
		}
		frac = decimal.Zero
	}

	sign := ""
	if d.IsNegative() && !(whole.IsZero() && frac.IsZero()) {
		sign = "-"
	}

	grouped := whole.Abs().String()
	if whole.Abs().LessThan(maxGrouped) {
		grouped = printer.Sprintf("%d", whole.Abs().IntPart())
	}
	cents := frac.StringFixed(AmountPrecision)[1:]

	return sign + grouped + cents
}
