package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pathassist/lab-billing/internal/application/analytics"
	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	InvoiceUC *billing.InvoiceUseCase
	DraftUC   *billing.DraftUseCase
	PDFUC     *billing.PDFUseCase
	ExportUC  *billing.ExportUseCase
	PatientUC *billing.PatientUseCase
	CatalogUC *billing.CatalogUseCase
	Dashboard *analytics.DashboardUseCase
	JWTSecret string
	Metrics   prometheus.Gatherer // nil = sin /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleAdmin, entity.RolePatient)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Catálogo de servicios
	services := api.Group("/services")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	services.Get("/", anyRole, catalogHandler.List)
	services.Post("/", adminOnly, catalogHandler.Create)

	// Pacientes
	patients := api.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC, deps.InvoiceUC)
	patients.Get("/", adminOnly, patientHandler.List)
	patients.Post("/", adminOnly, patientHandler.Create)
	patients.Get("/:id", anyRole, patientHandler.GetByID)
	patients.Get("/:id/invoices", anyRole, patientHandler.ListInvoices)

	// Facturas: las rutas fijas van antes de /:id
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, deps.ExportUC)
	invoices.Post("/preview", anyRole, invoiceHandler.Preview)
	invoices.Get("/export.xlsx", adminOnly, invoiceHandler.Export)
	invoices.Get("/", anyRole, invoiceHandler.List)
	invoices.Post("/", adminOnly, invoiceHandler.Create)
	invoices.Get("/:id", anyRole, invoiceHandler.GetByID)
	invoices.Put("/:id", adminOnly, invoiceHandler.Update)
	invoices.Get("/:id/pdf", anyRole, invoiceHandler.DownloadPDF)

	// Dashboard (solo admin)
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	api.Get("/dashboard/summary", adminOnly, dashboardHandler.GetSummary)

	// Borradores de edición (solo admin)
	drafts := api.Group("/drafts", adminOnly)
	draftHandler := NewDraftHandler(deps.DraftUC)
	drafts.Post("/", draftHandler.Start)
	drafts.Get("/:id", draftHandler.Get)
	drafts.Delete("/:id", draftHandler.Discard)
	drafts.Post("/:id/items", draftHandler.AddItem)
	drafts.Patch("/:id/items/:index", draftHandler.SetItemField)
	drafts.Delete("/:id/items/:index", draftHandler.RemoveItem)
	drafts.Put("/:id/tax", draftHandler.SetTax)
	drafts.Put("/:id/header", draftHandler.SetHeader)
	drafts.Post("/:id/submit", draftHandler.Submit)
}
