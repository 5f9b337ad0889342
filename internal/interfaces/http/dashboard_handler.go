package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/tu-usuario/farmacia-pos/internal/application/analytics"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Overview devuelve los conteos de stock, ventas, ganancia, top de ventas y
// stock por sección.
// GET /api/dashboard/overview
//
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(out)
}

// Analytics devuelve las métricas analíticas: tendencia de 7 días, inventario
// por sección, alertas y rotación.
// GET /api/dashboard/analytics
func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	out, err := h.uc.Analytics(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(out)
}

// ProfitSummary devuelve la ganancia del día, de los últimos 7 días y de los
// últimos 30 días.
// GET /api/dashboard/profit-summary
func (h *DashboardHandler) ProfitSummary(c *fiber.Ctx) error {
	out, err := h.uc.ProfitSummary(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: "INTERNAL", Message: err.Error(),
		})
	}
	return c.JSON(out)
}
