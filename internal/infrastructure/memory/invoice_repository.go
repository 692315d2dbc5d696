package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

// InvoiceRepository implementación en memoria de repository.InvoiceRepository.
type InvoiceRepository struct {
	store *Store
}

// NewInvoiceRepository construye el repositorio sobre el almacén.
func NewInvoiceRepository(store *Store) *InvoiceRepository {
	return &InvoiceRepository{store: store}
}

var _ repository.InvoiceRepository = (*InvoiceRepository)(nil)

// GetByID devuelve (nil, nil) si no existe.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, inv := range r.store.invoices {
		if inv.ID == id {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

// List todas las facturas, más recientes primero.
func (r *InvoiceRepository) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.list(ctx, func(*entity.Invoice) bool { return true })
}

// ListByPatient facturas de un paciente, más recientes primero.
func (r *InvoiceRepository) ListByPatient(ctx context.Context, patientID string) ([]*entity.Invoice, error) {
	return r.list(ctx, func(inv *entity.Invoice) bool { return inv.PatientID == patientID })
}

func (r *InvoiceRepository) list(ctx context.Context, keep func(*entity.Invoice) bool) ([]*entity.Invoice, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	out := make([]*entity.Invoice, 0, len(r.store.invoices))
	for _, inv := range r.store.invoices {
		if keep(inv) {
			out = append(out, cloneInvoice(inv))
		}
	}
	r.store.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].IssueDate.After(out[j].IssueDate) })
	return out, nil
}

// Create agrega la factura. Asigna ID si viene vacío.
func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	if err := r.store.wait(ctx, r.store.latency.Write); err != nil {
		return err
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.invoices {
		if existing.ID == inv.ID || existing.InvoiceNumber == inv.InvoiceNumber {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
	}
	r.store.invoices = append(r.store.invoices, cloneInvoice(inv))
	return nil
}

// Update reemplaza la factura completa.
func (r *InvoiceRepository) Update(ctx context.Context, inv *entity.Invoice) error {
	if err := r.store.wait(ctx, r.store.latency.Write); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	idx := -1
	for i, existing := range r.store.invoices {
		switch {
		case existing.ID == inv.ID:
			idx = i
		case existing.InvoiceNumber == inv.InvoiceNumber:
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
	}
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.store.invoices[idx] = cloneInvoice(inv)
	return nil
}
