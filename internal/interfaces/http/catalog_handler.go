package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/application/dto"
)

// CatalogHandler catálogo de servicios del laboratorio.
type CatalogHandler struct {
	uc *billing.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *billing.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List GET /api/services?q=  (autocompletado de descripciones)
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create POST /api/services
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLabServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
