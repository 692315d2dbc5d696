// Package analytics contiene el resumen del panel de administración:
// pacientes registrados, recaudo del mes y saldo pendiente.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pathassist/lab-billing/internal/application/dto"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

const dashboardTopServices = 5 // servicios en el widget del dashboard

// DashboardUseCase genera el resumen de facturación del día y del mes en curso.
//
// Los importes se recalculan con el motor de totales a partir de las líneas;
// el subtotal guardado no se usa.
type DashboardUseCase struct {
	invoiceRepo repository.InvoiceRepository
	patientRepo repository.PatientRepository
	now         func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(invoiceRepo repository.InvoiceRepository, patientRepo repository.PatientRepository) *DashboardUseCase {
	return &DashboardUseCase{invoiceRepo: invoiceRepo, patientRepo: patientRepo, now: time.Now}
}

// WithClock fija el reloj usado para los rangos de fecha.
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Dos lecturas en paralelo:
//  1. PatientRepository.Count → TotalPatients
//  2. InvoiceRepository.List  → recaudo, pendiente, conteo por estado, top servicios
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: 00:00 – 23:59:59.999; mes: día 1 – hoy
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type countResult struct {
		n   int
		err error
	}
	type invoicesResult struct {
		list []*entity.Invoice
		err  error
	}

	countCh := make(chan countResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		n, err := uc.patientRepo.Count(ctx)
		countCh <- countResult{n, err}
	}()
	go func() {
		list, err := uc.invoiceRepo.List(ctx)
		invoicesCh <- invoicesResult{list, err}
	}()

	patients := <-countCh
	invoices := <-invoicesCh

	if patients.err != nil {
		return nil, fmt.Errorf("dashboard: contar pacientes: %w", patients.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: listar facturas: %w", invoices.err)
	}

	summary := &dto.DashboardSummaryDTO{
		TotalPatients:      patients.n,
		TotalInvoices:      len(invoices.list),
		TodayRevenue:       decimal.Zero,
		MonthlyRevenue:     decimal.Zero,
		OutstandingBalance: decimal.Zero,
		ByStatus:           map[string]dto.StatusSummaryDTO{},
		DateLabel:          monthLabel(now),
	}
	services := map[string]*dto.TopServiceDTO{}

	for _, inv := range invoices.list {
		grand := engine.Subtotal(inv.Items).Add(inv.TaxAmount)

		st := summary.ByStatus[string(inv.Status)]
		st.Count++
		st.Total = st.Total.Add(grand)
		summary.ByStatus[string(inv.Status)] = st

		switch inv.Status {
		case entity.PaymentStatusPending:
			summary.OutstandingBalance = summary.OutstandingBalance.Add(grand)
		case entity.PaymentStatusPaid:
			if inRange(inv.IssueDate, monthStart, todayEnd) {
				summary.MonthlyRevenue = summary.MonthlyRevenue.Add(grand)
				addServices(services, inv.Items)
			}
			if inRange(inv.IssueDate, todayStart, todayEnd) {
				summary.TodayRevenue = summary.TodayRevenue.Add(grand)
			}
		}
	}

	summary.TodayRevenue = engine.RoundCurrency(summary.TodayRevenue)
	summary.MonthlyRevenue = engine.RoundCurrency(summary.MonthlyRevenue)
	summary.OutstandingBalance = engine.RoundCurrency(summary.OutstandingBalance)
	for k, st := range summary.ByStatus {
		st.Total = engine.RoundCurrency(st.Total)
		summary.ByStatus[k] = st
	}
	summary.TopServices = topServices(services, dashboardTopServices)
	return summary, nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// addServices acumula el subtotal de cada descripción (sin impuesto).
func addServices(acc map[string]*dto.TopServiceDTO, items []entity.InvoiceItem) {
	for _, it := range items {
		s, ok := acc[it.Description]
		if !ok {
			s = &dto.TopServiceDTO{Description: it.Description, Quantity: decimal.Zero, Revenue: decimal.Zero}
			acc[it.Description] = s
		}
		s.Quantity = s.Quantity.Add(it.Quantity)
		s.Revenue = s.Revenue.Add(engine.ItemTotal(it))
	}
}

// topServices ordena por ingreso descendente; a igual ingreso, por descripción.
func topServices(acc map[string]*dto.TopServiceDTO, n int) []dto.TopServiceDTO {
	out := make([]dto.TopServiceDTO, 0, len(acc))
	for _, s := range acc {
		out = append(out, dto.TopServiceDTO{
			Description: s.Description,
			Quantity:    s.Quantity,
			Revenue:     engine.RoundCurrency(s.Revenue),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "August 2024".
func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", t.Month().String(), t.Year())
}
