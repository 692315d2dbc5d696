package entity

import "github.com/shopspring/decimal"

// InvoiceItem línea facturable. Total = Quantity * UnitPrice y nunca se asigna por separado.
type InvoiceItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}
