package repository

import (
	"context"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para facturas y sus líneas.
// Es el único dueño de las facturas persistidas; el motor de totales nunca lo usa directamente.
type InvoiceRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context) ([]*entity.Invoice, error)
	ListByPatient(ctx context.Context, patientID string) ([]*entity.Invoice, error)
	// Create persiste cabecera y líneas. Asigna ID si viene vacío.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reemplaza cabecera y líneas de una factura existente.
	Update(ctx context.Context, invoice *entity.Invoice) error
}
