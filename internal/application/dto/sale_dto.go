package dto

import "github.com/shopspring/decimal"

// SaleItemRequest línea de una venta entrante: medicamento, cantidad y tipo
// de venta (unit | carton). Price es opcional: si no viene se congela el
// precio actual del medicamento.
type SaleItemRequest struct {
	MedicineID string           `json:"medicine_id"`
	Quantity   int              `json:"quantity"`
	SaleType   string           `json:"sale_type"`
	Price      *decimal.Decimal `json:"price,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	TINNumber     string            `json:"tin_number,omitempty"`
	PaymentMethod string            `json:"payment_method,omitempty"` // cash (defecto) | transfer
	DiscountPct   *decimal.Decimal  `json:"discount_percentage,omitempty"`
	Items         []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta en respuestas, con el snapshot del
// medicamento al momento de la venta.
type SaleItemResponse struct {
	ID           string          `json:"id"`
	MedicineID   string          `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	BatchNo      string          `json:"batch_no"`
	ExpireDate   string          `json:"expire_date"`
	Quantity     int             `json:"quantity"`
	SaleType     string          `json:"sale_type"`
	Price        decimal.Decimal `json:"price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// SaleResponse venta completa para POST /api/sales y GET /api/sales/:id.
type SaleResponse struct {
	ID               string             `json:"id"`
	VoucherNumber    string             `json:"voucher_number"`
	SoldBy           string             `json:"sold_by,omitempty"`
	CustomerName     string             `json:"customer_name,omitempty"`
	CustomerPhone    string             `json:"customer_phone,omitempty"`
	TINNumber        string             `json:"tin_number,omitempty"`
	SaleDate         string             `json:"sale_date"`
	PaymentMethod    string             `json:"payment_method"`
	DiscountPct      decimal.Decimal    `json:"discount_percentage"`
	BasePrice        decimal.Decimal    `json:"base_price"`
	DiscountedAmount decimal.Decimal    `json:"discounted_amount"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
	DiscountedBy     string             `json:"discounted_by,omitempty"`
	Items            []SaleItemResponse `json:"items"`
}

// SaleListResponse listado paginado de ventas.
type SaleListResponse struct {
	Data []SaleResponse `json:"data"`
	Page PageResponse   `json:"page"`
}

// SaleFilterRequest query params de los listados de ventas.
type SaleFilterRequest struct {
	PageRequest
	Search        string `query:"search"`
	VoucherNumber string `query:"voucher_number"`
}

// SoldItemResponse una línea vendida con datos del medicamento, para
// GET /api/sales/sold-medicines.
type SoldItemResponse struct {
	VoucherNumber string          `json:"voucher_number"`
	CustomerName  string          `json:"customer,omitempty"`
	MedicineName  string          `json:"medicine"`
	BatchNo       string          `json:"batch_no"`
	ExpireDate    string          `json:"expire_date"`
	Quantity      int             `json:"quantity"`
	SaleType      string          `json:"sale_type"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SaleDate      string          `json:"sale_date"`
}

// SoldItemListResponse listado paginado de líneas vendidas.
type SoldItemListResponse struct {
	Data []SoldItemResponse `json:"data"`
	Page PageResponse       `json:"page"`
}
