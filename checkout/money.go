package checkout

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amounts are shown with Indian digit grouping: ₹2,500 and ₹1,00,000.
var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount with the rupee sign and locale grouping.
// Whole amounts drop the paise; fractional ones keep two digits.
func FormatINR(amount float64) string {
	if amount == math.Trunc(amount) {
		return inr.Sprintf("₹%v", number.Decimal(int64(amount)))
	}
	return inr.Sprintf("₹%v", number.Decimal(amount,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
