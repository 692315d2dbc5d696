package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Cabecera en invoices y líneas en invoice_items, escritas en la misma transacción.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	i.id, i.patient_id, COALESCE(p.name, ''), i.appointment_id, i.invoice_number,
	i.issue_date, i.due_date, i.amount, i.tax_amount, i.currency, i.status,
	i.created_at, i.updated_at`

const invoiceFrom = `
	FROM invoices i
	LEFT JOIN patients p ON p.id = i.patient_id`

// Create persiste cabecera y líneas.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	return inTx(ctx, r.q, func(q Querier) error {
		query := `
			INSERT INTO invoices (id, patient_id, appointment_id, invoice_number, issue_date, due_date,
			                      amount, tax_amount, currency, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
		_, err := q.Exec(ctx, query,
			invoice.ID, invoice.PatientID, nullIfEmpty(invoice.AppointmentID), invoice.InvoiceNumber,
			invoice.IssueDate, invoice.DueDate, invoice.Amount, invoice.TaxAmount,
			invoice.Currency, string(invoice.Status), invoice.CreatedAt, invoice.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, invoice.InvoiceNumber)
			}
			return fmt.Errorf("insert invoice: %w", err)
		}
		return insertItems(ctx, q, invoice)
	})
}

// Update reemplaza cabecera y líneas.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	return inTx(ctx, r.q, func(q Querier) error {
		query := `
			UPDATE invoices
			SET patient_id     = $2,
			    appointment_id = $3,
			    invoice_number = $4,
			    issue_date     = $5,
			    due_date       = $6,
			    amount         = $7,
			    tax_amount     = $8,
			    currency       = $9,
			    status         = $10,
			    updated_at     = $11
			WHERE id = $1`
		tag, err := q.Exec(ctx, query,
			invoice.ID, invoice.PatientID, nullIfEmpty(invoice.AppointmentID), invoice.InvoiceNumber,
			invoice.IssueDate, invoice.DueDate, invoice.Amount, invoice.TaxAmount,
			invoice.Currency, string(invoice.Status), invoice.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, invoice.InvoiceNumber)
			}
			return fmt.Errorf("update invoice: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		if _, err := q.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_id = $1`, invoice.ID); err != nil {
			return fmt.Errorf("delete invoice items: %w", err)
		}
		return insertItems(ctx, q, invoice)
	})
}

func insertItems(ctx context.Context, q Querier, invoice *entity.Invoice) error {
	const query = `
		INSERT INTO invoice_items (invoice_id, position, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, item := range invoice.Items {
		if _, err := q.Exec(ctx, query,
			invoice.ID, i, item.Description, item.Quantity, item.UnitPrice, item.Total,
		); err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i, err)
		}
	}
	return nil
}

// GetByID obtiene una factura completa por ID. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+invoiceFrom+` WHERE i.id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.itemsByInvoice(ctx, []string{inv.ID})
	if err != nil {
		return nil, err
	}
	inv.Items = items[inv.ID]
	return inv, nil
}

// List todas las facturas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+invoiceFrom+` ORDER BY i.issue_date DESC, i.created_at DESC`)
}

// ListByPatient facturas de un paciente, más recientes primero.
func (r *InvoiceRepo) ListByPatient(ctx context.Context, patientID string) ([]*entity.Invoice, error) {
	return r.list(ctx, `SELECT `+invoiceColumns+invoiceFrom+` WHERE i.patient_id = $1 ORDER BY i.issue_date DESC, i.created_at DESC`, patientID)
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	var ids []string
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		ids = append(ids, inv.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}
	items, err := r.itemsByInvoice(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, inv := range list {
		inv.Items = items[inv.ID]
	}
	return list, nil
}

// itemsByInvoice líneas de varias facturas en una sola consulta, en orden de posición.
func (r *InvoiceRepo) itemsByInvoice(ctx context.Context, ids []string) (map[string][]entity.InvoiceItem, error) {
	const query = `
		SELECT invoice_id, description, quantity, unit_price, total
		FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY invoice_id, position`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.InvoiceItem, len(ids))
	for rows.Next() {
		var invoiceID string
		var it entity.InvoiceItem
		if err := rows.Scan(&invoiceID, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		out[invoiceID] = append(out[invoiceID], it)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var appointmentID *string
	var status string
	err := row.Scan(
		&inv.ID, &inv.PatientID, &inv.PatientName, &appointmentID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.DueDate, &inv.Amount, &inv.TaxAmount, &inv.Currency, &status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.AppointmentID = derefStr(appointmentID)
	inv.Status = entity.PaymentStatus(status)
	return &inv, nil
}
