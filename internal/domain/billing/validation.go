package billing

import (
	"fmt"
	"strings"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// ValidateForSubmission comprueba que la factura se puede enviar al almacenamiento:
// paciente asignado y todas las líneas con descripción, cantidad > 0 y precio >= 0.
func ValidateForSubmission(items []entity.InvoiceItem, patientID string) error {
	if strings.TrimSpace(patientID) == "" {
		return domain.ErrMissingPatient
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: la factura no tiene líneas", domain.ErrInvalidLineItem)
	}
	for i, item := range items {
		switch {
		case strings.TrimSpace(item.Description) == "":
			return fmt.Errorf("%w: línea %d sin descripción", domain.ErrInvalidLineItem, i+1)
		case !item.Quantity.IsPositive():
			return fmt.Errorf("%w: línea %d con cantidad %s", domain.ErrInvalidLineItem, i+1, item.Quantity.String())
		case item.UnitPrice.IsNegative():
			return fmt.Errorf("%w: línea %d con precio negativo %s", domain.ErrInvalidLineItem, i+1, item.UnitPrice.String())
		}
	}
	return nil
}
