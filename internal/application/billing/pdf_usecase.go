package billing

import (
	"context"
	"fmt"
	"strings"

	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

// PDFUseCase genera el PDF de una factura guardada.
type PDFUseCase struct {
	invoices    *InvoiceUseCase
	patientRepo repository.PatientRepository
	generator   InvoicePDFGenerator
	metrics     MetricsRecorder
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoices *InvoiceUseCase,
	patientRepo repository.PatientRepository,
	generator InvoicePDFGenerator,
	metrics MetricsRecorder,
) *PDFUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &PDFUseCase{
		invoices:    invoices,
		patientRepo: patientRepo,
		generator:   generator,
		metrics:     metrics,
	}
}

// DownloadInvoicePDF carga la factura y el paciente, recalcula los totales con las
// tasas reconstruidas desde el impuesto guardado y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si un paciente pide la factura de otro.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	req Requester,
	invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoices.load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	if err := req.authorize(inv); err != nil {
		return nil, "", err
	}

	patient, err := uc.patientRepo.GetByID(ctx, inv.PatientID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener paciente: %w", err)
	}
	if patient != nil && inv.PatientName == "" {
		inv.PatientName = patient.Name
	}

	tax := engine.InferRatesFromStoredTax(inv.Items, inv.TaxAmount)
	doc := InvoiceDocument{
		Invoice: inv,
		Patient: patient,
		Tax:     tax,
		Totals:  engine.ComputeTotals(inv.Items, tax).Rounded(),
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	uc.metrics.PDFRendered()

	filename = fmt.Sprintf("invoice_%s.pdf", safeFilename(inv.InvoiceNumber))
	return pdfBytes, filename, nil
}

func safeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
