package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
)

// SettingHandler maneja la configuración global (registro único).
type SettingHandler struct {
	uc *usecase.SettingUseCase
}

// NewSettingHandler construye el handler.
func NewSettingHandler(uc *usecase.SettingUseCase) *SettingHandler {
	return &SettingHandler{uc: uc}
}

// Get devuelve la configuración global.
// GET /api/settings
func (h *SettingHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get()
	if err != nil {
		return settingError(c, err)
	}
	return c.JSON(out)
}

// Update modifica parcialmente la configuración global.
// PUT /api/settings
func (h *SettingHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(in)
	if err != nil {
		return settingError(c, err)
	}
	return c.JSON(out)
}

// Delete no está permitido: la configuración es un registro único que nunca
// se elimina.
// DELETE /api/settings
func (h *SettingHandler) Delete(c *fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(dto.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "la configuración no se puede eliminar"})
}

// settingError mapea errores de dominio a códigos HTTP.
func settingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
