package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
)

// PatientHandler maneja las peticiones HTTP de pacientes.
type PatientHandler struct {
	patients *billing.PatientUseCase
	invoices *billing.InvoiceUseCase
}

// NewPatientHandler construye el handler.
func NewPatientHandler(patients *billing.PatientUseCase, invoices *billing.InvoiceUseCase) *PatientHandler {
	return &PatientHandler{patients: patients, invoices: invoices}
}

// Create POST /api/patients
func (h *PatientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePatientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.patients.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/patients?limit=20&offset=0
func (h *PatientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.patients.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ListResponse[*dto.PatientResponse]{
		Items: list,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID GET /api/patients/:id
func (h *PatientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.patients.Get(c.UserContext(), requesterFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListInvoices GET /api/patients/:id/invoices?q=&sort=&dir=
func (h *PatientHandler) ListInvoices(c *fiber.Ctx) error {
	patientID := c.Params("id")
	req := requesterFrom(c)
	if !req.IsAdmin() && req.PatientID != patientID {
		return respondError(c, domain.ErrForbidden)
	}
	var q dto.InvoiceListQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.ListForPatient(c.UserContext(), patientID, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
