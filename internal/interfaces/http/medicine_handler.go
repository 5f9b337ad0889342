package http

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MedicineHandler maneja las peticiones HTTP del catálogo de medicamentos.
type MedicineHandler struct {
	uc *inventory.MedicineUseCase
}

// NewMedicineHandler construye el handler.
func NewMedicineHandler(uc *inventory.MedicineUseCase) *MedicineHandler {
	return &MedicineHandler{uc: uc}
}

// Create da de alta uno o varios lotes. Si el body es un arreglo JSON se
// trata como alta masiva con validación todo-o-nada.
// POST /api/medicines
func (h *MedicineHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	body := bytes.TrimSpace(c.Body())
	if len(body) > 0 && body[0] == '[' {
		var batch []dto.CreateMedicineRequest
		if err := json.Unmarshal(body, &batch); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		out, err := h.uc.BulkCreate(userID, batch)
		if err != nil {
			return medicineError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	}
	var in dto.CreateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(userID, in)
	if err != nil {
		return medicineError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista lotes con filtros, búsqueda y paginación.
// GET /api/medicines
func (h *MedicineHandler) List(c *fiber.Ctx) error {
	var in dto.MedicineFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	out, err := h.uc.List(in)
	if err != nil {
		return medicineError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene un lote por id.
// GET /api/medicines/:id
func (h *MedicineHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return medicineError(c, err)
	}
	return c.JSON(out)
}

// Update actualiza parcialmente un lote.
// PUT /api/medicines/:id
func (h *MedicineHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	var in dto.UpdateMedicineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return medicineError(c, err)
	}
	return c.JSON(out)
}

// BulkUpdate aplica ediciones parciales a varios lotes en una sola llamada.
// Los campos fuera de la lista blanca se rechazan al decodificar, no se
// ignoran en silencio.
// PUT /api/medicines/bulk-update
func (h *MedicineHandler) BulkUpdate(c *fiber.Ctx) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	var items []dto.BulkUpdateItem
	if err := dec.Decode(&items); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cuerpo inválido o campo no permitido: " + err.Error()})
	}
	if len(items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere al menos una entrada"})
	}
	out, err := h.uc.BulkUpdate(items)
	if err != nil {
		return medicineError(c, err)
	}
	return c.JSON(out)
}

// Delete elimina un lote sin ventas asociadas.
// DELETE /api/medicines/:id
func (h *MedicineHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return medicineError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Alerts lista medicamentos vencidos o con stock bajo.
// GET /api/medicines/alerts
func (h *MedicineHandler) Alerts(c *fiber.Ctx) error {
	out, err := h.uc.Alerts()
	if err != nil {
		return medicineError(c, err)
	}
	return c.JSON(out)
}

// Analytics resumen del catálogo: conteos y valor del inventario.
// GET /api/medicines/analytics
func (h *MedicineHandler) Analytics(c *fiber.Ctx) error {
	out, err := h.uc.Analytics()
	if err != nil {
		return medicineError(c, err)
	}
	return c.JSON(out)
}

// ExportExcel descarga el catálogo completo como XLSX.
// GET /api/medicines/export-excel
func (h *MedicineHandler) ExportExcel(c *fiber.Ctx) error {
	data, err := h.uc.ExportExcel()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay medicamentos para exportar"})
		}
		return medicineError(c, err)
	}
	c.Set(fiber.HeaderContentType, excelContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="medicines.xlsx"`)
	return c.Send(data)
}

// medicineError mapea errores de dominio a códigos HTTP.
func medicineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
