package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockCountsResult conteos de inventario para el dashboard.
type StockCountsResult struct {
	TotalMedicines int
	LowStock       int
	StockOut       int
	Expired        int
	NearExpiry     int
}

// SalesTotalsResult cantidades e ingresos de ventas (hoy y acumulado).
type SalesTotalsResult struct {
	TodayQty     int64
	TotalQty     int64
	RevenueToday decimal.Decimal
	TotalRevenue decimal.Decimal
}

// TopSellingRow medicamento más vendido por cantidad.
type TopSellingRow struct {
	BrandName string
	TotalSold int64
}

// DepartmentStockRow stock y ganancia potencial agrupados por sección.
type DepartmentStockRow struct {
	Department  string
	TotalStock  int64
	TotalProfit decimal.Decimal
}

// SalesTrendRow ventas totales de un día.
type SalesTrendRow struct {
	Day        time.Time
	TotalSales decimal.Decimal
}

// CategoryValueRow valor de inventario y ganancia potencial por sección.
type CategoryValueRow struct {
	Department string
	Value      decimal.Decimal
	Profit     decimal.Decimal
}

// AlertMedicineRow fila ligera para las listas de alertas de stock.
type AlertMedicineRow struct {
	ID                string
	BrandName         string
	TotalStock        int64
	LowStockThreshold int
	ExpireDate        time.Time
}

// StockAlertsResult listas de alertas del dashboard.
type StockAlertsResult struct {
	LowStock   []AlertMedicineRow
	StockOut   []AlertMedicineRow
	NearExpiry []AlertMedicineRow
}

// AnalyticsRepository consultas de solo lectura para el dashboard. El núcleo
// de ventas nunca escribe a través de este puerto.
type AnalyticsRepository interface {
	StockCounts(ctx context.Context, today time.Time, nearExpiryDays int) (StockCountsResult, error)
	SalesTotals(ctx context.Context, today time.Time) (SalesTotalsResult, error)
	// ProfitSince suma (precio - costo) × cantidad de las líneas vendidas
	// desde la fecha dada (inclusive). Con fecha cero suma todo el histórico.
	ProfitSince(ctx context.Context, from time.Time) (decimal.Decimal, error)
	TopSelling(ctx context.Context, limit int) ([]TopSellingRow, error)
	DepartmentStock(ctx context.Context) ([]DepartmentStockRow, error)
	SalesTrend(ctx context.Context, from time.Time) ([]SalesTrendRow, error)
	// InventoryValue devuelve el valor del stock a precio de compra y a
	// precio de venta.
	InventoryValue(ctx context.Context) (buying, selling decimal.Decimal, err error)
	InventoryByCategory(ctx context.Context) ([]CategoryValueRow, error)
	StockAlerts(ctx context.Context, today time.Time, nearExpiryDays int) (StockAlertsResult, error)
	// WeekSummary ventas y número de transacciones desde la fecha dada.
	WeekSummary(ctx context.Context, from time.Time) (decimal.Decimal, int64, error)
	// UnitsTotals unidades vendidas históricas y unidades en inventario.
	UnitsTotals(ctx context.Context) (sold, inventory int64, err error)
	// SalesCount número total de ventas registradas.
	SalesCount(ctx context.Context) (int64, error)
}
