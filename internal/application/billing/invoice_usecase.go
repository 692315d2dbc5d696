package billing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
	"github.com/pathassist/lab-billing/pkg/logger"
)

// Settings valores por defecto de facturación.
type Settings struct {
	Currency     string // INR
	NumberPrefix string // INV
}

// InvoiceUseCase casos de uso de facturas: alta, edición, consulta y vista previa de totales.
// Los totales siempre salen del motor; nunca se aceptan importes calculados por el cliente.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	patientRepo repository.PatientRepository
	cache       InvoiceCache // opcional
	events      InvoiceEventPublisher
	metrics     MetricsRecorder
	log         *logger.Logger
	settings    Settings
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. cache, events, metrics y log pueden ser nil.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	patientRepo repository.PatientRepository,
	cache InvoiceCache,
	events InvoiceEventPublisher,
	metrics MetricsRecorder,
	log *logger.Logger,
	settings Settings,
) *InvoiceUseCase {
	if events == nil {
		events = nopEvents{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if settings.Currency == "" {
		settings.Currency = entity.DefaultCurrency
	}
	if settings.NumberPrefix == "" {
		settings.NumberPrefix = "INV"
	}
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		patientRepo: patientRepo,
		cache:       cache,
		events:      events,
		metrics:     metrics,
		log:         log,
		settings:    settings,
		now:         time.Now,
	}
}

// WithClock fija el reloj de fechas de emisión, numeración y borradores.
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// PreviewTotals calcula los totales de un formulario sin validar ni guardar.
func (uc *InvoiceUseCase) PreviewTotals(in dto.PreviewTotalsRequest) (*dto.PreviewTotalsResponse, error) {
	tax, err := toTaxConfig(in.Tax)
	if err != nil {
		return nil, err
	}
	items := toItems(in.Items)
	return &dto.PreviewTotalsResponse{
		Items:  toItemResponses(items),
		Tax:    toTaxDTO(tax),
		Totals: toTotalsResponse(engine.ComputeTotals(items, tax)),
	}, nil
}

// invoiceDraft entrada normalizada para guardar, venga de la API o de un borrador.
type invoiceDraft struct {
	PatientID string
	Header    engine.Header
	Items     []entity.InvoiceItem
	Tax       engine.TaxConfig
}

func (uc *InvoiceUseCase) draftFromRequest(in dto.CreateInvoiceRequest, fallback entity.PaymentStatus) (invoiceDraft, error) {
	tax, err := toTaxConfig(in.Tax)
	if err != nil {
		return invoiceDraft{}, err
	}
	issue, err := parseDate(in.IssueDate)
	if err != nil {
		return invoiceDraft{}, err
	}
	due, err := parseDate(in.DueDate)
	if err != nil {
		return invoiceDraft{}, err
	}
	status, err := parseStatus(in.Status, fallback)
	if err != nil {
		return invoiceDraft{}, err
	}
	h := engine.Header{
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		AppointmentID: strings.TrimSpace(in.AppointmentID),
		DueDate:       due,
		Status:        status,
	}
	if issue != nil {
		h.IssueDate = *issue
	}
	return invoiceDraft{PatientID: strings.TrimSpace(in.PatientID), Header: h, Items: toItems(in.Items), Tax: tax}, nil
}

// Create valida y guarda una factura nueva en estado Pending.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	d, err := uc.draftFromRequest(in, entity.PaymentStatusPending)
	if err != nil {
		return nil, err
	}
	d.Header.Status = entity.PaymentStatusPending
	inv, err := uc.save(ctx, "", d)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// Update reemplaza líneas, impuesto y cabecera de una factura existente.
// Sin status en la entrada se conserva el actual.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	existing, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	d, err := uc.draftFromRequest(in, existing.Status)
	if err != nil {
		return nil, err
	}
	inv, err := uc.save(ctx, id, d)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv), nil
}

// SubmitSnapshot colaborador de almacenamiento para sesiones de borrador (engine.SubmitFunc).
// Una factura nueva nace Pending, como en Create.
func (uc *InvoiceUseCase) SubmitSnapshot(ctx context.Context, snap engine.Snapshot) (string, error) {
	if snap.InvoiceID == "" {
		snap.Header.Status = entity.PaymentStatusPending
	}
	inv, err := uc.save(ctx, snap.InvoiceID, invoiceDraft{
		PatientID: snap.PatientID,
		Header:    snap.Header,
		Items:     snap.Items,
		Tax:       snap.Tax,
	})
	if err != nil {
		return "", err
	}
	return inv.ID, nil
}

// save valida, calcula totales y persiste. id vacío = alta.
func (uc *InvoiceUseCase) save(ctx context.Context, id string, d invoiceDraft) (*entity.Invoice, error) {
	items := engine.NormalizeItems(d.Items)
	if err := engine.ValidateForSubmission(items, d.PatientID); err != nil {
		uc.metrics.ValidationRejected(rejectionReason(err))
		return nil, err
	}
	patient, err := uc.patientRepo.GetByID(ctx, d.PatientID)
	if err != nil {
		return nil, fmt.Errorf("obtener paciente: %w", err)
	}
	if patient == nil {
		uc.metrics.ValidationRejected("unknown_patient")
		return nil, fmt.Errorf("%w: paciente %s no existe", domain.ErrMissingPatient, d.PatientID)
	}

	totals := engine.ComputeTotals(items, d.Tax).Rounded()
	now := uc.now()

	var inv *entity.Invoice
	operation := OperationCreate
	if id == "" {
		inv = &entity.Invoice{
			ID:        uuid.New().String(),
			Currency:  uc.settings.Currency,
			CreatedAt: now,
		}
	} else {
		operation = OperationUpdate
		if inv, err = uc.load(ctx, id); err != nil {
			return nil, err
		}
	}

	inv.PatientID = patient.ID
	inv.PatientName = patient.Name
	inv.AppointmentID = d.Header.AppointmentID
	inv.InvoiceNumber = d.Header.InvoiceNumber
	generated := inv.InvoiceNumber == ""
	if generated {
		inv.InvoiceNumber = uc.nextInvoiceNumber(now, 0)
	}
	inv.IssueDate = d.Header.IssueDate
	if inv.IssueDate.IsZero() {
		inv.IssueDate = dateOnly(now)
	}
	inv.DueDate = d.Header.DueDate
	inv.Status = d.Header.Status
	if inv.Status == "" {
		inv.Status = entity.PaymentStatusPending
	}
	if inv.Currency == "" {
		inv.Currency = uc.settings.Currency
	}
	inv.Items = items
	inv.Amount = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.UpdatedAt = now

	for attempt := 1; ; attempt++ {
		if operation == OperationCreate {
			err = uc.invoiceRepo.Create(ctx, inv)
		} else {
			err = uc.invoiceRepo.Update(ctx, inv)
		}
		if !generated || attempt >= numberAttempts || !errors.Is(err, domain.ErrDuplicate) {
			break
		}
		inv.InvoiceNumber = uc.nextInvoiceNumber(now, attempt)
	}
	if err != nil {
		return nil, fmt.Errorf("guardar factura: %w", err)
	}
	uc.invalidate(ctx, inv.ID)
	uc.metrics.InvoiceSaved(operation, totals.GrandTotal)
	uc.publish(ctx, operation, inv)
	return inv, nil
}

// numberAttempts intentos de alta con número generado antes de devolver ErrDuplicate.
const numberAttempts = 5

// nextInvoiceNumber INV-<año>-<4 dígitos>. El primer intento usa los últimos 4 dígitos
// del timestamp en ms; si ese número ya existe, los siguientes lo sortean.
func (uc *InvoiceUseCase) nextInvoiceNumber(now time.Time, attempt int) string {
	suffix := now.UnixMilli() % 10000
	if attempt > 0 {
		suffix = rand.Int64N(10000)
	}
	return fmt.Sprintf("%s-%d-%04d", uc.settings.NumberPrefix, now.Year(), suffix)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingPatient):
		return "missing_patient"
	case errors.Is(err, domain.ErrInvalidLineItem):
		return "invalid_line_item"
	default:
		return "other"
	}
}

// publish los fallos del broker no invalidan una factura ya guardada.
func (uc *InvoiceUseCase) publish(ctx context.Context, operation string, inv *entity.Invoice) {
	var err error
	if operation == OperationCreate {
		err = uc.events.PublishInvoiceCreated(ctx, inv)
	} else {
		err = uc.events.PublishInvoiceUpdated(ctx, inv)
	}
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Str("operation", operation).Msg("no se pudo publicar el evento de factura")
	}
}

func (uc *InvoiceUseCase) invalidate(ctx context.Context, id string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, id); err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", id).Msg("no se pudo invalidar la caché de la factura")
	}
}

// load lee una factura (caché primero) y re-deriva Amount desde las líneas.
func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	if uc.cache != nil {
		inv, err := uc.cache.Get(ctx, id)
		if err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", id).Msg("caché de facturas no disponible")
		}
		if inv != nil {
			return rederive(inv), nil
		}
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, inv); err != nil {
			uc.log.Warn().Err(err).Str("invoice_id", id).Msg("no se pudo guardar la factura en caché")
		}
	}
	return rederive(inv), nil
}

// rederive Amount se recalcula desde las líneas; el impuesto guardado se respeta.
func rederive(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = engine.NormalizeItems(inv.Items)
	cp.Amount = engine.RoundCurrency(engine.Subtotal(cp.Items))
	return &cp
}

// Get obtiene una factura por ID. Un paciente solo puede ver las suyas.
func (uc *InvoiceUseCase) Get(ctx context.Context, req Requester, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.authorize(inv); err != nil {
		return nil, err
	}
	uc.fillPatientNames(ctx, []*entity.Invoice{inv})
	return toInvoiceResponse(inv), nil
}

// List listado filtrado y ordenado. Admin ve todas; un paciente solo las suyas.
func (uc *InvoiceUseCase) List(ctx context.Context, req Requester, q dto.InvoiceListQuery) ([]*dto.InvoiceResponse, error) {
	list, err := uc.listInvoices(ctx, req, q)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// ListForPatient facturas de un paciente (vista "mis facturas").
func (uc *InvoiceUseCase) ListForPatient(ctx context.Context, patientID string, q dto.InvoiceListQuery) ([]*dto.InvoiceResponse, error) {
	return uc.List(ctx, Requester{Role: entity.RolePatient, PatientID: patientID}, q)
}

func (uc *InvoiceUseCase) listInvoices(ctx context.Context, req Requester, q dto.InvoiceListQuery) ([]*entity.Invoice, error) {
	key, ok := engine.ParseSortKey(q.Sort)
	if !ok {
		return nil, fmt.Errorf("%w: orden %q", domain.ErrInvalidInput, q.Sort)
	}
	ascending := strings.EqualFold(strings.TrimSpace(q.Dir), "asc")

	var list []*entity.Invoice
	var err error
	switch {
	case req.IsAdmin():
		list, err = uc.invoiceRepo.List(ctx)
	case req.Role == entity.RolePatient && req.PatientID != "":
		list, err = uc.invoiceRepo.ListByPatient(ctx, req.PatientID)
	default:
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	for i, inv := range list {
		list[i] = rederive(inv)
	}
	uc.fillPatientNames(ctx, list)
	list = engine.FilterInvoices(list, q.Query)
	return engine.SortInvoices(list, key, ascending), nil
}

// fillPatientNames completa PatientName cuando el almacenamiento no lo trae.
func (uc *InvoiceUseCase) fillPatientNames(ctx context.Context, list []*entity.Invoice) {
	names := make(map[string]string)
	for _, inv := range list {
		if inv.PatientName != "" {
			continue
		}
		name, ok := names[inv.PatientID]
		if !ok {
			if p, err := uc.patientRepo.GetByID(ctx, inv.PatientID); err == nil && p != nil {
				name = p.Name
			}
			names[inv.PatientID] = name
		}
		inv.PatientName = name
	}
}
