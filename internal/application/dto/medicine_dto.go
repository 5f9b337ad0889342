package dto

import "github.com/shopspring/decimal"

// CreateMedicineRequest body para POST /api/medicines (acepta también una
// lista de estos para alta masiva).
type CreateMedicineRequest struct {
	BrandName         string          `json:"brand_name"`
	ItemName          string          `json:"item_name,omitempty"`
	BatchNo           string          `json:"batch_no"`
	ManufactureDate   string          `json:"manufacture_date,omitempty"` // YYYY-MM-DD
	ExpireDate        string          `json:"expire_date"`                // YYYY-MM-DD, obligatorio
	BuyingPrice       decimal.Decimal `json:"buying_price"`
	Price             decimal.Decimal `json:"price"`
	StockCarton       int             `json:"stock_carton"`
	UnitsPerCarton    int             `json:"units_per_carton"`
	StockInUnit       int             `json:"stock_in_unit"`
	LowStockThreshold int             `json:"low_stock_threshold,omitempty"`
	Unit              string          `json:"unit,omitempty"`
	CompanyName       string          `json:"company_name,omitempty"`
	FSNO              string          `json:"fsno,omitempty"`
	DepartmentID      string          `json:"department_id,omitempty"`
}

// UpdateMedicineRequest body para PUT /api/medicines/:id (parcial; los
// punteros distinguen "no enviado" de "valor cero").
type UpdateMedicineRequest struct {
	BrandName         *string          `json:"brand_name,omitempty"`
	ItemName          *string          `json:"item_name,omitempty"`
	BatchNo           *string          `json:"batch_no,omitempty"`
	ManufactureDate   *string          `json:"manufacture_date,omitempty"`
	ExpireDate        *string          `json:"expire_date,omitempty"`
	BuyingPrice       *decimal.Decimal `json:"buying_price,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	StockCarton       *int             `json:"stock_carton,omitempty"`
	UnitsPerCarton    *int             `json:"units_per_carton,omitempty"`
	StockInUnit       *int             `json:"stock_in_unit,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	CompanyName       *string          `json:"company_name,omitempty"`
	FSNO              *string          `json:"fsno,omitempty"`
	DepartmentID      *string          `json:"department_id,omitempty"`
}

// BulkUpdateItem una entrada de PUT /api/medicines/bulk-update: el id del
// lote más los campos permitidos a modificar. Los campos fuera de la lista
// blanca se rechazan al decodificar el body, no se aplican en silencio.
type BulkUpdateItem struct {
	ID     string                `json:"id"`
	Fields UpdateMedicineRequest `json:"fields"`
}

// MedicineResponse lote de medicamento en respuestas, con los campos
// derivados que consume el frontend.
type MedicineResponse struct {
	ID                string              `json:"id"`
	BrandName         string              `json:"brand_name"`
	ItemName          string              `json:"item_name,omitempty"`
	BatchNo           string              `json:"batch_no"`
	ManufactureDate   string              `json:"manufacture_date,omitempty"`
	ExpireDate        string              `json:"expire_date"`
	BuyingPrice       decimal.Decimal     `json:"buying_price"`
	Price             decimal.Decimal     `json:"price"`
	ProfitPerItem     decimal.Decimal     `json:"profit_per_item"`
	TotalProfit       decimal.Decimal     `json:"total_profit"`
	StockCarton       int                 `json:"stock_carton"`
	UnitsPerCarton    int                 `json:"units_per_carton"`
	StockInUnit       int                 `json:"stock_in_unit"`
	TotalStockUnits   int                 `json:"total_stock_units"`
	LowStockThreshold int                 `json:"low_stock_threshold"`
	Unit              string              `json:"unit"`
	CompanyName       string              `json:"company_name,omitempty"`
	FSNO              string              `json:"fsno,omitempty"`
	Department        *DepartmentResponse `json:"department,omitempty"`
	IsOutOfStock      bool                `json:"is_out_of_stock"`
	IsExpired         bool                `json:"is_expired"`
	IsNearlyExpired   bool                `json:"is_nearly_expired"`
	CreatedAt         string              `json:"created_at"`
	UpdatedAt         string              `json:"updated_at"`
}

// MedicineListResponse listado paginado de lotes.
type MedicineListResponse struct {
	Data []MedicineResponse `json:"data"`
	Page PageResponse       `json:"page"`
}

// MedicineFilterRequest query params de GET /api/medicines.
type MedicineFilterRequest struct {
	PageRequest
	DepartmentID string `query:"department_id"`
	Unit         string `query:"unit"`
	BrandName    string `query:"brand_name"`
	ItemName     string `query:"item_name"`
	BatchNo      string `query:"batch_no"`
	Search       string `query:"search"`
	OrderBy      string `query:"order_by"`
}

// AlertsResponse medicamentos vencidos o con stock bajo, con conteos.
type AlertsResponse struct {
	Alert         bool               `json:"alert"`
	ExpiredCount  int                `json:"expired_count"`
	LowStockCount int                `json:"low_stock_count"`
	TotalAlerts   int                `json:"total_alerts"`
	Message       string             `json:"message"`
	Data          []MedicineResponse `json:"data"`
}

// InventoryAnalyticsResponse resumen del catálogo para GET /api/medicines/analytics.
type InventoryAnalyticsResponse struct {
	Summary InventorySummary `json:"summary"`
}

// InventorySummary conteos y valor total del inventario a precio de venta.
type InventorySummary struct {
	TotalMedicines      int             `json:"total_medicines"`
	ExpiredMedicines    int             `json:"expired_medicines"`
	LowStockMedicines   int             `json:"low_stock_medicines"`
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
}

// DepartmentResponse sección en respuestas.
type DepartmentResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// CreateDepartmentRequest body para POST /api/departments.
type CreateDepartmentRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
