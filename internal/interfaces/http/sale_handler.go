package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/application/sales"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
)

// SaleHandler maneja las peticiones HTTP de ventas.
type SaleHandler struct {
	createUC *sales.CreateSaleUseCase
	queryUC  *sales.SaleQueryUseCase
}

// NewSaleHandler construye el handler de ventas.
func NewSaleHandler(createUC *sales.CreateSaleUseCase, queryUC *sales.SaleQueryUseCase) *SaleHandler {
	return &SaleHandler{createUC: createUC, queryUC: queryUC}
}

// Create registra una venta multi-línea: descuenta stock, calcula totales y
// asigna el número de voucher del día.
// POST /api/sales
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.CreateSale(c.Context(), userID, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrInsufficientCartons):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista ventas con búsqueda por cliente, teléfono o voucher.
// GET /api/sales
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	out, err := h.queryUC.ListSales(c.Context(), in)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// GetByID obtiene una venta completa con sus líneas.
// GET /api/sales/:id
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	out, err := h.queryUC.GetSale(c.Context(), id)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// SoldItems lista las líneas vendidas con datos del medicamento.
// GET /api/sales/sold-medicines
func (h *SaleHandler) SoldItems(c *fiber.Ctx) error {
	var in dto.SaleFilterRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "query params inválidos"})
	}
	out, err := h.queryUC.ListSoldItems(c.Context(), in)
	if err != nil {
		return saleError(c, err)
	}
	return c.JSON(out)
}

// ExportExcel descarga todas las líneas vendidas como XLSX.
// GET /api/sales/export-excel
func (h *SaleHandler) ExportExcel(c *fiber.Ctx) error {
	data, err := h.queryUC.ExportSoldItemsExcel(c.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "no hay medicamentos vendidos"})
		}
		return saleError(c, err)
	}
	c.Set(fiber.HeaderContentType, excelContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="sold-medicines.xlsx"`)
	return c.Send(data)
}

// VoucherPDF descarga el voucher imprimible de una venta.
// GET /api/sales/:id/voucher-pdf
func (h *SaleHandler) VoucherPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	data, err := h.queryUC.VoucherPDF(c.Context(), id)
	if err != nil {
		return saleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="voucher-%s.pdf"`, id))
	return c.Send(data)
}

// saleError mapea errores de dominio a códigos HTTP para las lecturas.
func saleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "venta no encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
