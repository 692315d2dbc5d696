// Package money formatea importes en rupias para documentos y exportaciones.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const rupeeSign = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Format devuelve el importe con símbolo de rupia y 2 decimales, p. ej. "₹1,534.00".
func Format(amount decimal.Decimal) string {
	return rupeeSign + Digits(amount)
}

// FormatCode usa el código ISO en lugar del símbolo ("INR 1,534.00"), para fuentes
// sin el glifo ₹.
func FormatCode(amount decimal.Decimal) string {
	return currency.INR.String() + " " + Digits(amount)
}

// Digits agrupa miles con la convención en-IN y fija 2 decimales.
func Digits(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-" + printer.Sprint(number.Decimal(rounded.Neg().InexactFloat64(), number.Scale(2)))
	}
	return printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.Scale(2)))
}
