package billing

import (
	"context"
	"sync"
	"time"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// Phase fase del ciclo de vida de una sesión de edición.
type Phase string

const (
	PhaseDraft     Phase = "DRAFT"     // editable
	PhaseSubmitted Phase = "SUBMITTED" // congelada, la factura pertenece al almacenamiento
)

// Header datos de cabecera que acompañan a las líneas al enviar.
type Header struct {
	InvoiceNumber string
	AppointmentID string
	IssueDate     time.Time
	DueDate       *time.Time
	Status        entity.PaymentStatus
}

// Snapshot copia inmutable del estado de una sesión. Totals se recalcula al tomarla.
type Snapshot struct {
	ID        string
	InvoiceID string // vacío si la sesión crea una factura nueva
	PatientID string
	Header    Header
	Items     []entity.InvoiceItem
	Tax       TaxConfig
	Totals    Totals
	Phase     Phase
	Busy      bool
	UpdatedAt time.Time
}

// SubmitFunc colaborador de almacenamiento: persiste el snapshot y devuelve el ID de la factura.
type SubmitFunc func(ctx context.Context, snap Snapshot) (string, error)

// Session sesión de edición Draft -> Submitted. Mientras hay un envío en curso
// (busy) se rechazan las modificaciones; si el envío falla la sesión vuelve a Draft
// con los datos intactos.
type Session struct {
	mu        sync.Mutex
	id        string
	invoiceID string
	patientID string
	header    Header
	items     []entity.InvoiceItem
	tax       TaxConfig
	phase     Phase
	busy      bool
	updatedAt time.Time
	clock     func() time.Time
}

// NewSession sesión para una factura nueva: una línea vacía e impuesto por defecto.
// clock marca UpdatedAt en cada cambio; nil = time.Now.
func NewSession(id string, issueDate time.Time, clock func() time.Time) *Session {
	clock = orNow(clock)
	return &Session{
		id:        id,
		header:    Header{IssueDate: issueDate, Status: entity.PaymentStatusPending},
		items:     NewDraftItems(),
		tax:       DefaultTaxConfig(),
		phase:     PhaseDraft,
		updatedAt: clock(),
		clock:     clock,
	}
}

func orNow(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}

// NewSessionFromInvoice sesión para editar una factura guardada. Las tasas se
// reconstruyen desde el impuesto almacenado y los totales de línea se recalculan.
func NewSessionFromInvoice(id string, inv *entity.Invoice, clock func() time.Time) *Session {
	clock = orNow(clock)
	items := NormalizeItems(inv.Items)
	if len(items) == 0 {
		items = NewDraftItems()
	}
	return &Session{
		id:        id,
		invoiceID: inv.ID,
		patientID: inv.PatientID,
		header: Header{
			InvoiceNumber: inv.InvoiceNumber,
			AppointmentID: inv.AppointmentID,
			IssueDate:     inv.IssueDate,
			DueDate:       inv.DueDate,
			Status:        inv.Status,
		},
		items:     items,
		tax:       InferRatesFromStoredTax(items, inv.TaxAmount),
		phase:     PhaseDraft,
		updatedAt: clock(),
		clock:     clock,
	}
}

// ID identificador de la sesión.
func (s *Session) ID() string { return s.id }

// Snapshot devuelve una copia del estado actual con los totales recalculados.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	items := cloneItems(s.items)
	return Snapshot{
		ID:        s.id,
		InvoiceID: s.invoiceID,
		PatientID: s.patientID,
		Header:    s.header,
		Items:     items,
		Tax:       s.tax,
		Totals:    ComputeTotals(items, s.tax),
		Phase:     s.phase,
		Busy:      s.busy,
		UpdatedAt: s.updatedAt,
	}
}

// mutate aplica fn si la sesión está en Draft y sin envío en curso.
func (s *Session) mutate(fn func() error) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseSubmitted {
		return Snapshot{}, domain.ErrSessionSubmitted
	}
	if s.busy {
		return Snapshot{}, domain.ErrSessionBusy
	}
	if err := fn(); err != nil {
		return Snapshot{}, err
	}
	s.updatedAt = s.clock()
	return s.snapshotLocked(), nil
}

// SetItemField ver SetItemField.
func (s *Session) SetItemField(index int, field ItemField, value string) (Snapshot, error) {
	return s.mutate(func() error {
		items, err := SetItemField(s.items, index, field, value)
		if err != nil {
			return err
		}
		s.items = items
		return nil
	})
}

// AddItem ver AddItem.
func (s *Session) AddItem() (Snapshot, error) {
	return s.mutate(func() error {
		s.items = AddItem(s.items)
		return nil
	})
}

// RemoveItem ver RemoveItem. Si se rechaza, la colección queda igual.
func (s *Session) RemoveItem(index int) (Snapshot, error) {
	return s.mutate(func() error {
		items, err := RemoveItem(s.items, index)
		if err != nil {
			return err
		}
		s.items = items
		return nil
	})
}

// SetTax reemplaza la configuración de impuesto.
func (s *Session) SetTax(tax TaxConfig) (Snapshot, error) {
	return s.mutate(func() error {
		if tax.CGSTRate.IsNegative() || tax.SGSTRate.IsNegative() {
			return domain.ErrInvalidInput
		}
		s.tax = tax
		return nil
	})
}

// SetPatient asigna el paciente de la factura.
func (s *Session) SetPatient(patientID string) (Snapshot, error) {
	return s.mutate(func() error {
		s.patientID = patientID
		return nil
	})
}

// SetHeader asigna paciente y cabecera en un solo cambio.
func (s *Session) SetHeader(patientID string, h Header) (Snapshot, error) {
	return s.mutate(func() error {
		s.patientID = patientID
		s.header = h
		return nil
	})
}

// Submit valida y envía la sesión al colaborador de almacenamiento. Durante el envío
// la sesión queda ocupada; al terminar con éxito pasa a Submitted y ya no cambia.
func (s *Session) Submit(ctx context.Context, fn SubmitFunc) (Snapshot, error) {
	s.mu.Lock()
	if s.phase == PhaseSubmitted {
		s.mu.Unlock()
		return Snapshot{}, domain.ErrSessionSubmitted
	}
	if s.busy {
		s.mu.Unlock()
		return Snapshot{}, domain.ErrSessionBusy
	}
	if err := ValidateForSubmission(s.items, s.patientID); err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.busy = true
	snap := s.snapshotLocked()
	s.mu.Unlock()

	invoiceID, err := fn(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return Snapshot{}, err
	}
	s.phase = PhaseSubmitted
	s.invoiceID = invoiceID
	s.updatedAt = s.clock()
	return s.snapshotLocked(), nil
}
