// Package money formats amounts for display on the storefront.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol is appended to every formatted amount.
const CurrencySymbol = "₫"

var vnPrinter = message.NewPrinter(language.Vietnamese)

// FormatVND renders an amount with Vietnamese digit grouping, e.g. 500000 -> "500.000₫".
// The dong has no minor unit, so fractions are rounded away.
func FormatVND(amount decimal.Decimal) string {
	return vnPrinter.Sprintf("%d", amount.Round(0).IntPart()) + CurrencySymbol
}

// FormatVNDInt is FormatVND for integral gateway amounts.
func FormatVNDInt(amount int64) string {
	return FormatVND(decimal.NewFromInt(amount))
}
