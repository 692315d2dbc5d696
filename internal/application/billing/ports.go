package billing

import (
	"context"

	"github.com/shopspring/decimal"

	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// InvoiceDocument datos completos para la representación gráfica de una factura.
// Totals se recalcula desde las líneas con las tasas reconstruidas en Tax.
type InvoiceDocument struct {
	Invoice *entity.Invoice
	Patient *entity.Patient // puede ser nil si el paciente ya no existe
	Tax     engine.TaxConfig
	Totals  engine.Totals
}

// InvoicePDFGenerator puerto para la generación del PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceExporter puerto para exportar un listado de facturas a hoja de cálculo.
type InvoiceExporter interface {
	ExportInvoices(ctx context.Context, docs []InvoiceDocument) ([]byte, error)
}

// InvoiceCache caché de lectura de facturas. Get devuelve (nil, nil) si no hay entrada.
type InvoiceCache interface {
	Get(ctx context.Context, id string) (*entity.Invoice, error)
	Set(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
}

// InvoiceEventPublisher publica eventos de facturas guardadas.
type InvoiceEventPublisher interface {
	PublishInvoiceCreated(ctx context.Context, invoice *entity.Invoice) error
	PublishInvoiceUpdated(ctx context.Context, invoice *entity.Invoice) error
}

// MetricsRecorder métricas de negocio de facturación.
type MetricsRecorder interface {
	InvoiceSaved(operation string, grandTotal decimal.Decimal)
	ValidationRejected(reason string)
	PDFRendered()
}

// Operaciones reportadas a MetricsRecorder.InvoiceSaved.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
)

type nopEvents struct{}

func (nopEvents) PublishInvoiceCreated(context.Context, *entity.Invoice) error { return nil }
func (nopEvents) PublishInvoiceUpdated(context.Context, *entity.Invoice) error { return nil }

type nopMetrics struct{}

func (nopMetrics) InvoiceSaved(string, decimal.Decimal) {}
func (nopMetrics) ValidationRejected(string)            {}
func (nopMetrics) PDFRendered()                         {}
