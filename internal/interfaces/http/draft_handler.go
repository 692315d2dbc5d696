package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pathassist/lab-billing/internal/application/billing"
	"github.com/pathassist/lab-billing/internal/application/dto"
)

// DraftHandler expone las sesiones de edición de facturas (solo admin).
type DraftHandler struct {
	uc *billing.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *billing.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Start POST /api/drafts  body opcional {"invoice_id": "..."}
func (h *DraftHandler) Start(c *fiber.Ctx) error {
	var in dto.StartDraftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Start(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/drafts/:id
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	return h.reply(c, fiber.StatusOK)(h.uc.Get(c.Params("id")))
}

// AddItem POST /api/drafts/:id/items
func (h *DraftHandler) AddItem(c *fiber.Ctx) error {
	return h.reply(c, fiber.StatusCreated)(h.uc.AddItem(c.Params("id")))
}

// SetItemField PATCH /api/drafts/:id/items/:index  body {"field": "...", "value": "..."}
func (h *DraftHandler) SetItemField(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "índice inválido"})
	}
	var in dto.SetItemFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c, fiber.StatusOK)(h.uc.SetItemField(c.Params("id"), index, in))
}

// RemoveItem DELETE /api/drafts/:id/items/:index
func (h *DraftHandler) RemoveItem(c *fiber.Ctx) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "índice inválido"})
	}
	return h.reply(c, fiber.StatusOK)(h.uc.RemoveItem(c.Params("id"), index))
}

// SetTax PUT /api/drafts/:id/tax
func (h *DraftHandler) SetTax(c *fiber.Ctx) error {
	var in dto.TaxConfigDTO
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c, fiber.StatusOK)(h.uc.SetTax(c.Params("id"), in))
}

// SetHeader PUT /api/drafts/:id/header
func (h *DraftHandler) SetHeader(c *fiber.Ctx) error {
	var in dto.DraftHeaderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	return h.reply(c, fiber.StatusOK)(h.uc.SetHeader(c.Params("id"), in))
}

// Submit POST /api/drafts/:id/submit
// Si el guardado falla el borrador sigue editable con sus datos.
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	return h.reply(c, fiber.StatusOK)(h.uc.Submit(c.UserContext(), c.Params("id")))
}

// Discard DELETE /api/drafts/:id
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	if err := h.uc.Discard(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DraftHandler) reply(c *fiber.Ctx, status int) func(*dto.DraftResponse, error) error {
	return func(out *dto.DraftResponse, err error) error {
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(status).JSON(out)
	}
}
