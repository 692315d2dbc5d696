package billing

import (
	"context"
	"fmt"

	"github.com/pathassist/lab-billing/internal/application/dto"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
)

// ExportUseCase exporta el listado de facturas (con el mismo filtro y orden de la vista) a xlsx.
type ExportUseCase struct {
	invoices *InvoiceUseCase
	exporter InvoiceExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(invoices *InvoiceUseCase, exporter InvoiceExporter) *ExportUseCase {
	return &ExportUseCase{invoices: invoices, exporter: exporter}
}

// ExportInvoices devuelve el libro xlsx y su nombre de archivo.
func (uc *ExportUseCase) ExportInvoices(ctx context.Context, req Requester, q dto.InvoiceListQuery) ([]byte, string, error) {
	list, err := uc.invoices.listInvoices(ctx, req, q)
	if err != nil {
		return nil, "", err
	}
	docs := make([]InvoiceDocument, 0, len(list))
	for _, inv := range list {
		tax := engine.InferRatesFromStoredTax(inv.Items, inv.TaxAmount)
		docs = append(docs, InvoiceDocument{
			Invoice: inv,
			Tax:     tax,
			Totals:  engine.ComputeTotals(inv.Items, tax).Rounded(),
		})
	}
	data, err := uc.exporter.ExportInvoices(ctx, docs)
	if err != nil {
		return nil, "", fmt.Errorf("exportar facturas: %w", err)
	}
	return data, fmt.Sprintf("invoices_%s.xlsx", uc.invoices.now().Format("20060102")), nil
}
