// Package xlsx exporta listados de facturas a libros de Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	appbilling "github.com/pathassist/lab-billing/internal/application/billing"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/pkg/money"
)

const (
	invoicesSheet = "Invoices"
	itemsSheet    = "Items"
	dateLayout    = "2006-01-02"
)

var invoiceHeaders = []string{
	"Invoice #", "Patient", "Issue date", "Due date", "Status", "Currency",
	"Subtotal", "CGST %", "SGST %", "CGST", "SGST", "Tax", "Grand total",
}

var itemHeaders = []string{"Invoice #", "Line", "Description", "Quantity", "Unit price", "Total"}

var _ appbilling.InvoiceExporter = (*ExcelizeExporter)(nil)

// ExcelizeExporter implementa billing.InvoiceExporter. Hoja "Invoices" con una fila por
// factura y hoja "Items" con una fila por línea.
type ExcelizeExporter struct{}

// NewExcelizeExporter construye el exportador.
func NewExcelizeExporter() *ExcelizeExporter { return &ExcelizeExporter{} }

// ExportInvoices escribe el libro y devuelve sus bytes.
func (e *ExcelizeExporter) ExportInvoices(_ context.Context, docs []appbilling.InvoiceDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := writeRow(f, invoicesSheet, 1, toAny(invoiceHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, itemsSheet, 1, toAny(itemHeaders)); err != nil {
		return nil, err
	}

	itemRow := 2
	for i, doc := range docs {
		inv := doc.Invoice
		if inv == nil {
			continue
		}
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format(dateLayout)
		}
		t := doc.Totals
		row := []any{
			inv.InvoiceNumber, inv.PatientName, inv.IssueDate.Format(dateLayout), due,
			string(inv.Status), inv.Currency,
			t.Subtotal.InexactFloat64(),
			doc.Tax.CGSTRate.InexactFloat64(), doc.Tax.SGSTRate.InexactFloat64(),
			t.CGSTAmount.InexactFloat64(), t.SGSTAmount.InexactFloat64(),
			t.TaxAmount.InexactFloat64(), t.GrandTotal.InexactFloat64(),
		}
		if err := writeRow(f, invoicesSheet, i+2, row); err != nil {
			return nil, err
		}
		for n, it := range inv.Items {
			line := []any{
				inv.InvoiceNumber, n + 1, it.Description,
				it.Quantity.InexactFloat64(), it.UnitPrice.InexactFloat64(),
				engine.RoundCurrency(engine.ItemTotal(it)).InexactFloat64(),
			}
			if err := writeRow(f, itemsSheet, itemRow, line); err != nil {
				return nil, err
			}
			itemRow++
		}
	}

	lastInvoiceRow := len(docs) + 1
	if lastInvoiceRow > 1 {
		if err := f.SetCellStyle(invoicesSheet, "G2", fmt.Sprintf("M%d", lastInvoiceRow), moneyStyle); err != nil {
			return nil, fmt.Errorf("xlsx: estilo importes: %w", err)
		}
	}
	if itemRow > 2 {
		if err := f.SetCellStyle(itemsSheet, "E2", fmt.Sprintf("F%d", itemRow-1), moneyStyle); err != nil {
			return nil, fmt.Errorf("xlsx: estilo importes: %w", err)
		}
	}
	if err := f.SetCellStyle(invoicesSheet, "A1", "M1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	if err := f.SetCellStyle(itemsSheet, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	if err := writeSummary(f, docs, lastInvoiceRow+2); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSummary agrega la fila de total general al pie de la hoja de facturas.
func writeSummary(f *excelize.File, docs []appbilling.InvoiceDocument, rowIdx int) error {
	var totals engine.Totals
	for _, doc := range docs {
		totals.Subtotal = totals.Subtotal.Add(doc.Totals.Subtotal)
		totals.TaxAmount = totals.TaxAmount.Add(doc.Totals.TaxAmount)
		totals.GrandTotal = totals.GrandTotal.Add(doc.Totals.GrandTotal)
	}
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return fmt.Errorf("xlsx: celda resumen: %w", err)
	}
	label := fmt.Sprintf("%d invoices, total %s", len(docs), money.FormatCode(totals.GrandTotal))
	if err := f.SetCellValue(invoicesSheet, cell, label); err != nil {
		return fmt.Errorf("xlsx: resumen: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowIdx int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIdx)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d de %s: %w", rowIdx, sheet, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
