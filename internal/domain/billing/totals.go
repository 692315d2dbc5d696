package billing

import (
	"github.com/shopspring/decimal"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// DefaultComponentRate tasa por defecto de cada componente (CGST 9% + SGST 9% = 18%).
var DefaultComponentRate = decimal.NewFromInt(9)

// TaxConfig configuración de impuesto en dos componentes.
// Si Applicable es false no se calcula impuesto, sin importar las tasas.
type TaxConfig struct {
	Applicable bool
	CGSTRate   decimal.Decimal // porcentaje, ej. 9
	SGSTRate   decimal.Decimal
}

// DefaultTaxConfig impuesto desactivado con tasas 9/9 listas para activar.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		Applicable: false,
		CGSTRate:   DefaultComponentRate,
		SGSTRate:   DefaultComponentRate,
	}
}

// CombinedRate suma de ambas tasas.
func (t TaxConfig) CombinedRate() decimal.Decimal {
	return t.CGSTRate.Add(t.SGSTRate)
}

// Totals proyección derivada de las líneas y la configuración de impuesto.
// Nunca se guarda aparte de sus entradas.
type Totals struct {
	Subtotal   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// Subtotal suma de Quantity*UnitPrice de todas las líneas. El Total guardado en la
// línea no se usa: se recalcula para evitar desvíos entre líneas y subtotal.
func Subtotal(items []entity.InvoiceItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(ItemTotal(item))
	}
	return sum
}

// ComputeTotals calcula subtotal, CGST, SGST y total. Función pura.
func ComputeTotals(items []entity.InvoiceItem, tax TaxConfig) Totals {
	subtotal := Subtotal(items)
	if !tax.Applicable {
		return Totals{
			Subtotal:   subtotal,
			CGSTAmount: decimal.Zero,
			SGSTAmount: decimal.Zero,
			TaxAmount:  decimal.Zero,
			GrandTotal: subtotal,
		}
	}
	cgst := subtotal.Mul(tax.CGSTRate).Div(hundred)
	sgst := subtotal.Mul(tax.SGSTRate).Div(hundred)
	taxAmount := cgst.Add(sgst)
	return Totals{
		Subtotal:   subtotal,
		CGSTAmount: cgst,
		SGSTAmount: sgst,
		TaxAmount:  taxAmount,
		GrandTotal: subtotal.Add(taxAmount),
	}
}

// RoundCurrency redondea a 2 decimales (mitad lejos de cero).
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Rounded copia de los totales con cada importe redondeado a 2 decimales, para mostrar o persistir.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:   RoundCurrency(t.Subtotal),
		CGSTAmount: RoundCurrency(t.CGSTAmount),
		SGSTAmount: RoundCurrency(t.SGSTAmount),
		TaxAmount:  RoundCurrency(t.TaxAmount),
		GrandTotal: RoundCurrency(t.GrandTotal),
	}
}
