package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appbilling "github.com/pathassist/lab-billing/internal/application/billing"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/infrastructure/xlsx"
)

func doc(number, patient string, applicable bool, items ...entity.InvoiceItem) appbilling.InvoiceDocument {
	tax := engine.DefaultTaxConfig()
	tax.Applicable = applicable
	return appbilling.InvoiceDocument{
		Invoice: &entity.Invoice{
			InvoiceNumber: number, PatientName: patient,
			IssueDate: time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC),
			Items:     items, Currency: "INR", Status: entity.PaymentStatusPending,
		},
		Tax:    tax,
		Totals: engine.ComputeTotals(items, tax).Rounded(),
	}
}

func item(desc string, qty, price int64) entity.InvoiceItem {
	return entity.InvoiceItem{Description: desc, Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(price)}
}

func TestExportInvoices_HojasYFilas(t *testing.T) {
	docs := []appbilling.InvoiceDocument{
		doc("INV-2023-001", "Ravi Kumar", true, item("Complete Blood Count", 1, 500), item("Lipid Profile", 2, 100)),
		doc("INV-2023-002", "Priya Sharma", false, item("Thyroid Profile", 1, 400)),
	}

	data, err := xlsx.NewExcelizeExporter().ExportInvoices(context.Background(), docs)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Invoices", "Items"}, f.GetSheetList())

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3)
	assert.Equal(t, "Invoice #", rows[0][0])
	assert.Equal(t, "INV-2023-001", rows[1][0])
	assert.Equal(t, "Ravi Kumar", rows[1][1])

	grand, err := f.GetCellValue("Invoices", "M2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "826", grand)

	grand2, err := f.GetCellValue("Invoices", "M3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "400", grand2)

	summary, err := f.GetCellValue("Invoices", "A5")
	require.NoError(t, err)
	assert.Equal(t, "2 invoices, total INR 1,226.00", summary)

	items, err := f.GetRows("Items")
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, "Lipid Profile", items[2][2])
}

func TestExportInvoices_ListaVacia(t *testing.T) {
	data, err := xlsx.NewExcelizeExporter().ExportInvoices(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
