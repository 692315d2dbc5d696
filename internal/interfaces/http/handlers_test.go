package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathassist/lab-billing/internal/application/analytics"
	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/infrastructure/memory"
	"github.com/pathassist/lab-billing/internal/infrastructure/metrics"
	infrapdf "github.com/pathassist/lab-billing/internal/infrastructure/pdf"
	"github.com/pathassist/lab-billing/internal/infrastructure/xlsx"
	apphttp "github.com/pathassist/lab-billing/internal/interfaces/http"
	"github.com/pathassist/lab-billing/pkg/logger"
)

// newAPI arma la API completa sobre el almacén en memoria sembrado, sin latencia.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewSeededStore(memory.Latency{})
	invoiceRepo := memory.NewInvoiceRepository(store)
	patientRepo := memory.NewPatientRepository(store)
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo, patientRepo, nil, nil, recorder, logger.Nop(), billing.Settings{})
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		InvoiceUC: invoiceUC,
		DraftUC:   billing.NewDraftUseCase(invoiceUC, logger.Nop(), 0),
		PDFUC:     billing.NewPDFUseCase(invoiceUC, patientRepo, infrapdf.NewMarotoPDFGenerator(infrapdf.LabInfo{}), recorder),
		ExportUC:  billing.NewExportUseCase(invoiceUC, xlsx.NewExcelizeExporter()),
		PatientUC: billing.NewPatientUseCase(patientRepo),
		CatalogUC: billing.NewCatalogUseCase(memory.NewServiceCatalogRepository(store)),
		Dashboard: analytics.NewDashboardUseCase(invoiceRepo, patientRepo),
		JWTSecret: testJWTSecret,
		Metrics:   reg,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "esperado %s, obtenido %s", want, got)
}

func TestPreview_CalculaTotales(t *testing.T) {
	app := newAPI(t)
	body := dto.PreviewTotalsRequest{
		Items: []dto.InvoiceItemRequest{
			{Description: "Complete Blood Count", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(500)},
			{Description: "Lab Processing Fee", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100)},
		},
		Tax: &dto.TaxConfigDTO{Applicable: true, CGSTRate: decimal.NewFromInt(9), SGSTRate: decimal.NewFromInt(9)},
	}
	resp := call(t, app, http.MethodPost, "/api/invoices/preview", tokenFor(t, "patient", "patient1"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.PreviewTotalsResponse](t, resp)
	assertDecimal(t, "700", out.Totals.Subtotal)
	assertDecimal(t, "63", out.Totals.CGSTAmount)
	assertDecimal(t, "126", out.Totals.TaxAmount)
	assertDecimal(t, "826", out.Totals.GrandTotal)
}

func TestListInvoices_PacienteSoloVeLasSuyas(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/invoices", tokenFor(t, "patient", "patient1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]dto.InvoiceResponse](t, resp)
	require.Len(t, list, 2)
	for _, inv := range list {
		assert.Equal(t, "patient1", inv.PatientID)
	}
}

func TestListInvoices_AdminOrdenYFiltro(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/invoices?sort=grandTotal&dir=asc", tokenFor(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]dto.InvoiceResponse](t, resp)
	require.Len(t, list, 5)
	assert.Equal(t, "inv4", list[0].ID)
	assert.Equal(t, "inv5", list[4].ID)

	resp = call(t, app, http.MethodGet, "/api/invoices?q=thyroid", tokenFor(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list = decode[[]dto.InvoiceResponse](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "inv3", list[0].ID)

	resp = call(t, app, http.MethodGet, "/api/invoices?sort=nope", tokenFor(t, "admin", ""), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetInvoice_InfiereTasasYProtegeAcceso(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/invoices/inv1", tokenFor(t, "patient", "patient1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.True(t, inv.Tax.Applicable)
	assertDecimal(t, "9", inv.Tax.CGSTRate)
	assertDecimal(t, "826", inv.GrandTotal)

	resp = call(t, app, http.MethodGet, "/api/invoices/inv3", tokenFor(t, "patient", "patient1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices/nada", tokenFor(t, "admin", ""), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateInvoice_Validaciones(t *testing.T) {
	app := newAPI(t)
	admin := tokenFor(t, "admin", "")

	sinPaciente := dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{Description: "CBC", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	}
	resp := call(t, app, http.MethodPost, "/api/invoices", admin, sinPaciente)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)

	lineaInvalida := dto.CreateInvoiceRequest{
		PatientID: "patient2",
		Items:     []dto.InvoiceItemRequest{{Description: "", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	}
	resp = call(t, app, http.MethodPost, "/api/invoices", admin, lineaInvalida)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/invoices", tokenFor(t, "patient", "patient2"), lineaInvalida)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCreateInvoice_GuardaPendiente(t *testing.T) {
	app := newAPI(t)
	body := dto.CreateInvoiceRequest{
		PatientID: "patient2",
		Items: []dto.InvoiceItemRequest{
			{Description: "Vitamin D Test", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1200)},
		},
		Tax: &dto.TaxConfigDTO{Applicable: true, CGSTRate: decimal.NewFromInt(9), SGSTRate: decimal.NewFromInt(9)},
	}
	resp := call(t, app, http.MethodPost, "/api/invoices", tokenFor(t, "admin", ""), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "Pending", inv.Status)
	assert.Equal(t, "INR", inv.Currency)
	assert.NotEmpty(t, inv.InvoiceNumber)
	assertDecimal(t, "1200", inv.Amount)
	assertDecimal(t, "216", inv.TaxAmount)

	resp = call(t, app, http.MethodGet, "/api/patients/patient2/invoices", tokenFor(t, "patient", "patient2"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.InvoiceResponse](t, resp), 2)
}

func TestDrafts_FlujoCompleto(t *testing.T) {
	app := newAPI(t)
	admin := tokenFor(t, "admin", "")

	resp := call(t, app, http.MethodPost, "/api/drafts", admin, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	draft := decode[dto.DraftResponse](t, resp)
	require.Len(t, draft.Items, 1)
	base := "/api/drafts/" + draft.ID

	resp = call(t, app, http.MethodDelete, base+"/items/0", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CANNOT_REMOVE_LAST_ITEM", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodPatch, base+"/items/0", admin, dto.SetItemFieldRequest{Field: "description", Value: "Lipid Profile"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, app, http.MethodPatch, base+"/items/0", admin, dto.SetItemFieldRequest{Field: "quantity", Value: "3"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = call(t, app, http.MethodPatch, base+"/items/0", admin, dto.SetItemFieldRequest{Field: "unitPrice", Value: "500"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	draft = decode[dto.DraftResponse](t, resp)
	assertDecimal(t, "1500", draft.Items[0].Total)

	resp = call(t, app, http.MethodPatch, base+"/items/x", admin, dto.SetItemFieldRequest{Field: "quantity", Value: "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = call(t, app, http.MethodPatch, base+"/items/0", admin, dto.SetItemFieldRequest{Field: "total", Value: "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPut, base+"/tax", admin, dto.TaxConfigDTO{Applicable: true, CGSTRate: decimal.NewFromInt(9), SGSTRate: decimal.NewFromInt(9)})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	draft = decode[dto.DraftResponse](t, resp)
	assertDecimal(t, "1770", draft.Totals.GrandTotal)

	// sin paciente el envío se rechaza y el borrador sigue editable
	resp = call(t, app, http.MethodPost, base+"/submit", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPut, base+"/header", admin, dto.DraftHeaderRequest{PatientID: "patient3"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodPost, base+"/submit", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	draft = decode[dto.DraftResponse](t, resp)
	assert.Equal(t, "SUBMITTED", draft.Phase)
	require.NotEmpty(t, draft.InvoiceID)

	resp = call(t, app, http.MethodPost, base+"/items", admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DRAFT_SUBMITTED", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, "/api/invoices/"+draft.InvoiceID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assertDecimal(t, "1500", inv.Amount)
	assertDecimal(t, "270", inv.TaxAmount)

	resp = call(t, app, http.MethodDelete, base, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = call(t, app, http.MethodGet, base, admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDrafts_SoloAdmin(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodPost, "/api/drafts", tokenFor(t, "patient", "patient1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDownloadPDF(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/invoices/inv1/pdf", tokenFor(t, "patient", "patient1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "invoice_INV-2024-071.pdf")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	resp = call(t, app, http.MethodGet, "/api/invoices/inv1/pdf", tokenFor(t, "patient", "patient2"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestExportXLSX(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/invoices/export.xlsx", tokenFor(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	resp = call(t, app, http.MethodGet, "/api/invoices/export.xlsx", tokenFor(t, "patient", "patient1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPatientsYCatalogo(t *testing.T) {
	app := newAPI(t)
	admin := tokenFor(t, "admin", "")

	resp := call(t, app, http.MethodGet, "/api/patients?limit=2", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[dto.ListResponse[dto.PatientResponse]](t, resp)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page.Limit)

	resp = call(t, app, http.MethodGet, "/api/patients/patient2", tokenFor(t, "patient", "patient1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/services?q=profile", tokenFor(t, "patient", "patient1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	services := decode[[]dto.LabServiceResponse](t, resp)
	require.Len(t, services, 1)
	assert.Equal(t, "Lipid Profile", services[0].Name)

	resp = call(t, app, http.MethodPost, "/api/services", admin, dto.CreateLabServiceRequest{Name: "Urine Culture"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = call(t, app, http.MethodPost, "/api/services", admin, dto.CreateLabServiceRequest{Name: "Urine Culture"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/invoices/inv1/pdf", tokenFor(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pathassist_billing_invoice_pdf_rendered_total 1")
}

func TestDashboardSummary(t *testing.T) {
	app := newAPI(t)
	resp := call(t, app, http.MethodGet, "/api/dashboard/summary", tokenFor(t, "admin", ""), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)

	assert.Equal(t, 4, summary.TotalPatients)
	assert.Equal(t, 5, summary.TotalInvoices)
	assert.Equal(t, 3, summary.ByStatus["Paid"].Count)
	assertDecimal(t, "3894", summary.OutstandingBalance)

	resp = call(t, app, http.MethodGet, "/api/dashboard/summary", tokenFor(t, "patient", "patient1"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
