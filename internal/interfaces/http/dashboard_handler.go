package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/pathassist/lab-billing/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del panel de administración.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve pacientes registrados, recaudo del día y del mes, saldo pendiente
// y top de servicios del mes.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
