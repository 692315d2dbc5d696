package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toItems(in []dto.InvoiceItemRequest) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, 0, len(in))
	for _, r := range in {
		it := entity.InvoiceItem{Description: r.Description, Quantity: r.Quantity, UnitPrice: r.UnitPrice}
		it.Total = engine.ItemTotal(it)
		items = append(items, it)
	}
	return items
}

// toTaxConfig nil = configuración por defecto (sin impuesto, 9/9).
func toTaxConfig(in *dto.TaxConfigDTO) (engine.TaxConfig, error) {
	if in == nil {
		return engine.DefaultTaxConfig(), nil
	}
	if in.CGSTRate.IsNegative() || in.SGSTRate.IsNegative() {
		return engine.TaxConfig{}, fmt.Errorf("%w: tasas de impuesto negativas", domain.ErrInvalidInput)
	}
	return engine.TaxConfig{Applicable: in.Applicable, CGSTRate: in.CGSTRate, SGSTRate: in.SGSTRate}, nil
}

// parseDate fecha opcional en formato 2006-01-02.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (use AAAA-MM-DD)", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

func parseStatus(s string, fallback entity.PaymentStatus) (entity.PaymentStatus, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	st, ok := entity.ParsePaymentStatus(s)
	if !ok {
		return "", fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, s)
	}
	return st, nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func toItemResponses(items []entity.InvoiceItem) []dto.InvoiceItemResponse {
	out := make([]dto.InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Total:       engine.RoundCurrency(it.Total),
		})
	}
	return out
}

func toTaxDTO(t engine.TaxConfig) dto.TaxConfigDTO {
	return dto.TaxConfigDTO{Applicable: t.Applicable, CGSTRate: t.CGSTRate, SGSTRate: t.SGSTRate}
}

func toTotalsResponse(t engine.Totals) dto.TotalsResponse {
	r := t.Rounded()
	return dto.TotalsResponse{
		Subtotal:   r.Subtotal,
		CGSTAmount: r.CGSTAmount,
		SGSTAmount: r.SGSTAmount,
		TaxAmount:  r.TaxAmount,
		GrandTotal: r.GrandTotal,
	}
}

// toInvoiceResponse las tasas se reconstruyen desde el impuesto almacenado; los
// importes mostrados son los guardados (Amount ya re-derivado de las líneas).
func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	tax := engine.InferRatesFromStoredTax(inv.Items, inv.TaxAmount)
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		PatientID:     inv.PatientID,
		PatientName:   inv.PatientName,
		AppointmentID: inv.AppointmentID,
		InvoiceNumber: inv.InvoiceNumber,
		IssueDate:     formatDate(&inv.IssueDate),
		DueDate:       formatDate(inv.DueDate),
		Currency:      inv.Currency,
		Status:        string(inv.Status),
		Items:         toItemResponses(inv.Items),
		Amount:        engine.RoundCurrency(inv.Amount),
		TaxAmount:     engine.RoundCurrency(inv.TaxAmount),
		GrandTotal:    engine.RoundCurrency(inv.GrandTotal()),
		Tax:           toTaxDTO(tax),
		Totals:        toTotalsResponse(engine.ComputeTotals(inv.Items, tax)),
	}
}

func toDraftResponse(s engine.Snapshot) *dto.DraftResponse {
	return &dto.DraftResponse{
		ID:            s.ID,
		InvoiceID:     s.InvoiceID,
		PatientID:     s.PatientID,
		AppointmentID: s.Header.AppointmentID,
		InvoiceNumber: s.Header.InvoiceNumber,
		IssueDate:     formatDate(&s.Header.IssueDate),
		DueDate:       formatDate(s.Header.DueDate),
		Status:        string(s.Header.Status),
		Items:         toItemResponses(s.Items),
		Tax:           toTaxDTO(s.Tax),
		Totals:        toTotalsResponse(s.Totals),
		Phase:         string(s.Phase),
		Busy:          s.Busy,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toPatientResponse(p *entity.Patient, now time.Time) *dto.PatientResponse {
	var age *int
	if a, ok := p.Age(now); ok {
		age = &a
	}
	return &dto.PatientResponse{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: formatDate(p.DateOfBirth),
		Age:         age,
		Gender:      p.Gender,
		Address:     p.Address,
		CreatedAt:   p.CreatedAt,
	}
}
