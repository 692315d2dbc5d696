package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
)

// respondError traduce errores de dominio al cuerpo de error HTTP.
func respondError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "no se pudo completar la operación, intente de nuevo"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidLineItem),
		errors.Is(err, domain.ErrMissingPatient),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidNumber),
		errors.Is(err, domain.ErrUnknownItemField),
		errors.Is(err, domain.ErrItemIndexOutOfRange):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrCannotRemoveLastItem):
		return fiber.StatusConflict, "CANNOT_REMOVE_LAST_ITEM"
	case errors.Is(err, domain.ErrSessionBusy):
		return fiber.StatusConflict, "DRAFT_BUSY"
	case errors.Is(err, domain.ErrSessionSubmitted):
		return fiber.StatusConflict, "DRAFT_SUBMITTED"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
