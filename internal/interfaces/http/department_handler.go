package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/application/usecase"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
)

// DepartmentHandler maneja las peticiones HTTP de secciones de la farmacia.
type DepartmentHandler struct {
	uc *usecase.DepartmentUseCase
}

// NewDepartmentHandler construye el handler.
func NewDepartmentHandler(uc *usecase.DepartmentUseCase) *DepartmentHandler {
	return &DepartmentHandler{uc: uc}
}

// Create crea una sección.
// POST /api/departments
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return departmentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista secciones con búsqueda por código o nombre.
// GET /api/departments
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	data, pageOut, err := h.uc.List(c.Query("search"), page)
	if err != nil {
		return departmentError(c, err)
	}
	return c.JSON(fiber.Map{"data": data, "page": pageOut})
}

// GetByID obtiene una sección por id.
// GET /api/departments/:id
func (h *DepartmentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return departmentError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza código y nombre de una sección.
// PUT /api/departments/:id
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	var in dto.CreateDepartmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return departmentError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina una sección; los medicamentos asociados quedan sin sección.
// DELETE /api/departments/:id
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return departmentError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// departmentError mapea errores de dominio a códigos HTTP.
func departmentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
