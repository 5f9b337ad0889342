package dto

import "github.com/shopspring/decimal"

// ── Overview ──────────────────────────────────────────────────────────────────

// DashboardOverviewResponse respuesta de GET /api/dashboard/overview.
type DashboardOverviewResponse struct {
	Stock       OverviewStock        `json:"stock"`
	Sales       OverviewSales        `json:"sales"`
	Profit      OverviewProfit       `json:"profit"`
	TopSelling  []TopSellingDTO      `json:"top_selling"`
	Departments []DepartmentStockDTO `json:"departments"`
}

// OverviewStock conteos de inventario.
type OverviewStock struct {
	TotalMedicines int `json:"total_medicines"`
	LowStock       int `json:"low_stock"`
	StockOut       int `json:"stock_out"`
	Expired        int `json:"expired"`
	NearExpiry     int `json:"near_expiry"`
}

// OverviewSales cantidades e ingresos de ventas.
type OverviewSales struct {
	TodaySalesQty int64           `json:"today_sales_qty"`
	TotalSalesQty int64           `json:"total_sales_qty"`
	RevenueToday  decimal.Decimal `json:"revenue_today"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// OverviewProfit ganancia del día y acumulada.
type OverviewProfit struct {
	TodayProfit decimal.Decimal `json:"today_profit"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// TopSellingDTO medicamento más vendido.
type TopSellingDTO struct {
	BrandName string `json:"brand_name"`
	TotalSold int64  `json:"total_sold"`
}

// DepartmentStockDTO stock y ganancia potencial por sección.
type DepartmentStockDTO struct {
	Department  string          `json:"department"`
	TotalStock  int64           `json:"total_stock"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// ── Analytics ─────────────────────────────────────────────────────────────────

// DashboardAnalyticsResponse respuesta de GET /api/dashboard/analytics.
type DashboardAnalyticsResponse struct {
	Summary             AnalyticsSummary      `json:"summary"`
	SalesTrend          []SalesTrendDTO       `json:"sales_trend"`
	InventoryByCategory []CategoryValueDTO    `json:"inventory_by_category"`
	TopSelling          []TopSellingDTO       `json:"top_selling"`
	StockAlerts         StockAlertsDTO        `json:"stock_alerts"`
	WeeklySummary       WeeklySummaryDTO      `json:"weekly_summary"`
	InventoryHealth     InventoryHealthDTO    `json:"inventory_health"`
	PerformanceMetrics  PerformanceMetricsDTO `json:"performance_metrics"`
}

// AnalyticsSummary métricas agregadas del negocio.
type AnalyticsSummary struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalTransactions int64           `json:"total_transactions"`
	AvgOrderValue     decimal.Decimal `json:"avg_order_value"`
	InventoryValue    decimal.Decimal `json:"inventory_value"` // a precio de compra
}

// SalesTrendDTO ventas de un día en la serie de 7 días.
type SalesTrendDTO struct {
	Day        string          `json:"day"` // YYYY-MM-DD
	TotalSales decimal.Decimal `json:"total_sales"`
}

// CategoryValueDTO valor de inventario y ganancia potencial por sección.
type CategoryValueDTO struct {
	Department string          `json:"department"`
	Value      decimal.Decimal `json:"value"`
	Profit     decimal.Decimal `json:"profit"`
}

// AlertMedicineDTO fila ligera en las listas de alertas.
type AlertMedicineDTO struct {
	ID                string `json:"id"`
	BrandName         string `json:"brand_name"`
	TotalStock        int64  `json:"total_stock,omitempty"`
	LowStockThreshold int    `json:"low_stock_threshold,omitempty"`
	ExpireDate        string `json:"expire_date,omitempty"`
}

// StockAlertsDTO alertas de stock del dashboard.
type StockAlertsDTO struct {
	LowStock   []AlertMedicineDTO `json:"low_stock"`
	StockOut   []AlertMedicineDTO `json:"stock_out"`
	NearExpiry []AlertMedicineDTO `json:"near_expiry"`
}

// WeeklySummaryDTO ventas y transacciones de los últimos 7 días.
type WeeklySummaryDTO struct {
	WeekSales    decimal.Decimal `json:"week_sales"`
	Transactions int64           `json:"transactions"`
}

// InventoryHealthDTO conteos de salud del inventario.
type InventoryHealthDTO struct {
	TotalProducts int `json:"total_products"`
	LowStock      int `json:"low_stock"`
	NearExpiry    int `json:"near_expiry"`
	StockOut      int `json:"stock_out"`
}

// PerformanceMetricsDTO métricas de rotación.
type PerformanceMetricsDTO struct {
	InventoryTurnover float64 `json:"inventory_turnover"`
}

// ── Profit summary ────────────────────────────────────────────────────────────

// ProfitSummaryResponse respuesta de GET /api/dashboard/profit-summary.
type ProfitSummaryResponse struct {
	DailyProfit   decimal.Decimal `json:"daily_profit"`
	WeeklyProfit  decimal.Decimal `json:"weekly_profit"`
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`
}
