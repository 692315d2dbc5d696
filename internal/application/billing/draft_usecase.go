package billing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/pkg/logger"
)

// DraftUseCase sesiones de edición de facturas en memoria del proceso.
// Cada sesión es independiente; el motor de totales no comparte estado entre ellas.
type DraftUseCase struct {
	invoices *InvoiceUseCase
	log      *logger.Logger
	ttl      time.Duration // 0 = sin expiración

	mu       sync.Mutex
	sessions map[string]*engine.Session
}

// NewDraftUseCase construye el caso de uso. Los borradores sin cambios durante ttl se descartan.
func NewDraftUseCase(invoices *InvoiceUseCase, log *logger.Logger, ttl time.Duration) *DraftUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DraftUseCase{
		invoices: invoices,
		log:      log,
		ttl:      ttl,
		sessions: make(map[string]*engine.Session),
	}
}

// Start abre un borrador: vacío, o cargado desde una factura guardada con las tasas
// reconstruidas desde su impuesto.
func (uc *DraftUseCase) Start(ctx context.Context, in dto.StartDraftRequest) (*dto.DraftResponse, error) {
	now := uc.invoices.now()
	id := uuid.New().String()

	var s *engine.Session
	if invoiceID := strings.TrimSpace(in.InvoiceID); invoiceID != "" {
		inv, err := uc.invoices.load(ctx, invoiceID)
		if err != nil {
			return nil, err
		}
		s = engine.NewSessionFromInvoice(id, inv, uc.invoices.now)
	} else {
		s = engine.NewSession(id, dateOnly(now), uc.invoices.now)
	}

	uc.mu.Lock()
	uc.purgeExpiredLocked(now)
	uc.sessions[id] = s
	uc.mu.Unlock()

	return toDraftResponse(s.Snapshot()), nil
}

func (uc *DraftUseCase) purgeExpiredLocked(now time.Time) {
	if uc.ttl <= 0 {
		return
	}
	for id, s := range uc.sessions {
		snap := s.Snapshot()
		if !snap.Busy && now.Sub(snap.UpdatedAt) > uc.ttl {
			delete(uc.sessions, id)
		}
	}
}

func (uc *DraftUseCase) session(id string) (*engine.Session, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	s, ok := uc.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// Get estado actual del borrador con totales recalculados.
func (uc *DraftUseCase) Get(id string) (*dto.DraftResponse, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(s.Snapshot()), nil
}

// SetItemField edita un campo de una línea y recalcula su total.
func (uc *DraftUseCase) SetItemField(id string, index int, in dto.SetItemFieldRequest) (*dto.DraftResponse, error) {
	field, err := engine.ParseItemField(in.Field)
	if err != nil {
		return nil, err
	}
	return uc.apply(id, func(s *engine.Session) (engine.Snapshot, error) {
		return s.SetItemField(index, field, in.Value)
	})
}

// AddItem agrega una línea vacía.
func (uc *DraftUseCase) AddItem(id string) (*dto.DraftResponse, error) {
	return uc.apply(id, (*engine.Session).AddItem)
}

// RemoveItem quita una línea; la última no se puede quitar.
func (uc *DraftUseCase) RemoveItem(id string, index int) (*dto.DraftResponse, error) {
	return uc.apply(id, func(s *engine.Session) (engine.Snapshot, error) {
		return s.RemoveItem(index)
	})
}

// SetTax activa/desactiva el impuesto o cambia sus tasas.
func (uc *DraftUseCase) SetTax(id string, in dto.TaxConfigDTO) (*dto.DraftResponse, error) {
	tax, err := toTaxConfig(&in)
	if err != nil {
		return nil, err
	}
	return uc.apply(id, func(s *engine.Session) (engine.Snapshot, error) {
		return s.SetTax(tax)
	})
}

// SetHeader asigna paciente y datos de cabecera. Fechas vacías conservan la emisión actual.
func (uc *DraftUseCase) SetHeader(id string, in dto.DraftHeaderRequest) (*dto.DraftResponse, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	current := s.Snapshot().Header
	issue, err := parseDate(in.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	status, err := parseStatus(in.Status, current.Status)
	if err != nil {
		return nil, err
	}
	h := engine.Header{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		AppointmentID: strings.TrimSpace(in.AppointmentID),
		IssueDate:     current.IssueDate,
		DueDate:       due,
		Status:        status,
	}
	if issue != nil {
		h.IssueDate = *issue
	}
	snap, err := s.SetHeader(strings.TrimSpace(in.PatientID), h)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(snap), nil
}

// Submit valida y guarda la factura (alta o edición). Si falla, el borrador sigue editable.
func (uc *DraftUseCase) Submit(ctx context.Context, id string) (*dto.DraftResponse, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	snap, err := s.Submit(ctx, uc.invoices.SubmitSnapshot)
	if err != nil {
		uc.log.Info().Err(err).Str("draft_id", id).Msg("envío de borrador rechazado")
		return nil, err
	}
	uc.log.Info().Str("draft_id", id).Str("invoice_id", snap.InvoiceID).Msg("borrador enviado")
	return toDraftResponse(snap), nil
}

// Discard descarta el borrador. No afecta a facturas ya guardadas.
func (uc *DraftUseCase) Discard(id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, ok := uc.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(uc.sessions, id)
	return nil
}

func (uc *DraftUseCase) apply(id string, fn func(*engine.Session) (engine.Snapshot, error)) (*dto.DraftResponse, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	snap, err := fn(s)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(snap), nil
}
