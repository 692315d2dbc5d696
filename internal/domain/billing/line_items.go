// Package billing contiene el motor de totales de factura: modelo de líneas,
// cálculo de subtotal/CGST/SGST/total y validación previa al envío.
// Todas las funciones son puras: reciben una colección y devuelven una nueva.
package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// ItemField campo editable de una línea.
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldUnitPrice   ItemField = "unitPrice"
)

// ParseItemField acepta el nombre del formulario (unitPrice) o el de la API (unit_price).
func ParseItemField(s string) (ItemField, error) {
	switch strings.TrimSpace(s) {
	case "description":
		return FieldDescription, nil
	case "quantity":
		return FieldQuantity, nil
	case "unitPrice", "unit_price":
		return FieldUnitPrice, nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownItemField, s)
}

// NewItem línea vacía: sin descripción, cantidad 1, precio 0.
func NewItem() entity.InvoiceItem {
	return entity.InvoiceItem{
		Description: "",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.Zero,
		Total:       decimal.Zero,
	}
}

// NewDraftItems colección inicial de un borrador nuevo (una línea vacía).
func NewDraftItems() []entity.InvoiceItem {
	return []entity.InvoiceItem{NewItem()}
}

// ItemTotal cantidad por precio unitario.
func ItemTotal(item entity.InvoiceItem) decimal.Decimal {
	return item.Quantity.Mul(item.UnitPrice)
}

// ParseAmount convierte la entrada del formulario a número.
// Una entrada vacía o no numérica vale 0; el error ErrInvalidNumber solo informa
// de la coerción, el valor devuelto siempre es utilizable.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", domain.ErrInvalidNumber, s)
	}
	return d, nil
}

// SetItemField devuelve una copia de items con la línea index actualizada.
// Para quantity y unitPrice el valor se convierte a número (no numérico = 0) y el
// total de la línea se recalcula con los valores ya actualizados.
func SetItemField(items []entity.InvoiceItem, index int, field ItemField, value string) ([]entity.InvoiceItem, error) {
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: %d (hay %d líneas)", domain.ErrItemIndexOutOfRange, index, len(items))
	}
	out := cloneItems(items)
	item := out[index]
	switch field {
	case FieldDescription:
		item.Description = value
	case FieldQuantity:
		item.Quantity, _ = ParseAmount(value)
	case FieldUnitPrice:
		item.UnitPrice, _ = ParseAmount(value)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownItemField, field)
	}
	item.Total = ItemTotal(item)
	out[index] = item
	return out, nil
}

// AddItem agrega una línea vacía al final. No hay límite de líneas.
func AddItem(items []entity.InvoiceItem) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, NewItem())
}

// RemoveItem quita la línea index. Rechaza quitar la última línea restante.
func RemoveItem(items []entity.InvoiceItem, index int) ([]entity.InvoiceItem, error) {
	if len(items) <= 1 {
		return nil, domain.ErrCannotRemoveLastItem
	}
	if index < 0 || index >= len(items) {
		return nil, fmt.Errorf("%w: %d (hay %d líneas)", domain.ErrItemIndexOutOfRange, index, len(items))
	}
	out := make([]entity.InvoiceItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

// NormalizeItems recalcula el total de cada línea. Se usa al recibir líneas de fuera
// (API, almacenamiento) para no confiar en un total enviado por el cliente.
func NormalizeItems(items []entity.InvoiceItem) []entity.InvoiceItem {
	out := cloneItems(items)
	for i := range out {
		out[i].Total = ItemTotal(out[i])
	}
	return out
}

func cloneItems(items []entity.InvoiceItem) []entity.InvoiceItem {
	out := make([]entity.InvoiceItem, len(items))
	copy(out, items)
	return out
}
