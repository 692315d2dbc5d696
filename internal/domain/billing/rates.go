package billing

import (
	"github.com/shopspring/decimal"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

var two = decimal.NewFromInt(2)

// InferRatesFromStoredTax reconstruye la configuración de impuesto de una factura guardada
// a partir del impuesto total almacenado: tasa implícita = impuesto / subtotal * 100,
// repartida en partes iguales entre CGST y SGST.
//
// Es una reconstrucción aproximada: una factura creada con componentes distintos
// queda normalizada a dos mitades iguales al editarla.
func InferRatesFromStoredTax(items []entity.InvoiceItem, storedTax decimal.Decimal) TaxConfig {
	if !storedTax.IsPositive() {
		return DefaultTaxConfig()
	}
	subtotal := Subtotal(items)
	implied := decimal.Zero
	if !subtotal.IsZero() {
		implied = storedTax.Div(subtotal).Mul(hundred)
	}
	half := implied.Div(two)
	return TaxConfig{
		Applicable: true,
		CGSTRate:   half,
		SGSTRate:   half,
	}
}
