// Package analytics contiene los casos de uso de solo lectura del dashboard
// de la farmacia: overview, analítica de negocio y resumen de ganancias.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

const (
	dashboardTopSelling = 5  // medicamentos en el widget de más vendidos
	trendDays           = 7  // días de la serie de tendencia de ventas
	monthlyWindowDays   = 30 // ventana del resumen mensual de ganancias
)

// defaultNearExpiryDays horizonte de "pronto a vencer" cuando la
// configuración aún no existe.
const defaultNearExpiryDays = 30

// DashboardUseCase agrega las métricas del negocio para el frontend.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Nunca escribe;
// las ventas y el inventario tienen sus propios caminos.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	settingRepo   repository.SettingRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	analyticsRepo repository.AnalyticsRepository,
	settingRepo repository.SettingRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		settingRepo:   settingRepo,
		now:           time.Now,
	}
}

// Overview construye la respuesta de GET /api/dashboard/overview.
//
// Cuatro grupos de consultas en paralelo: conteos de stock, totales de
// ventas, ganancias (hoy y acumulado) y widgets (top de ventas + secciones).
func (uc *DashboardUseCase) Overview(ctx context.Context) (*dto.DashboardOverviewResponse, error) {
	now := uc.now()
	todayStart := startOfDay(now)
	nearExpiry := uc.nearExpiryDays()

	type stockResult struct {
		counts repository.StockCountsResult
		err    error
	}
	type salesResult struct {
		totals repository.SalesTotalsResult
		err    error
	}
	type profitResult struct {
		today, total decimal.Decimal
		err          error
	}
	type widgetsResult struct {
		top   []repository.TopSellingRow
		depts []repository.DepartmentStockRow
		err   error
	}

	stockCh := make(chan stockResult, 1)
	salesCh := make(chan salesResult, 1)
	profitCh := make(chan profitResult, 1)
	widgetsCh := make(chan widgetsResult, 1)

	go func() {
		counts, err := uc.analyticsRepo.StockCounts(ctx, now, nearExpiry)
		stockCh <- stockResult{counts, err}
	}()
	go func() {
		totals, err := uc.analyticsRepo.SalesTotals(ctx, now)
		salesCh <- salesResult{totals, err}
	}()
	go func() {
		today, err := uc.analyticsRepo.ProfitSince(ctx, todayStart)
		if err != nil {
			profitCh <- profitResult{err: err}
			return
		}
		total, err := uc.analyticsRepo.ProfitSince(ctx, time.Time{})
		profitCh <- profitResult{today, total, err}
	}()
	go func() {
		top, err := uc.analyticsRepo.TopSelling(ctx, dashboardTopSelling)
		if err != nil {
			widgetsCh <- widgetsResult{err: err}
			return
		}
		depts, err := uc.analyticsRepo.DepartmentStock(ctx)
		widgetsCh <- widgetsResult{top, depts, err}
	}()

	stock := <-stockCh
	sales := <-salesCh
	profit := <-profitCh
	widgets := <-widgetsCh

	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: conteos de stock: %w", stock.err)
	}
	if sales.err != nil {
		return nil, fmt.Errorf("dashboard: totales de ventas: %w", sales.err)
	}
	if profit.err != nil {
		return nil, fmt.Errorf("dashboard: ganancias: %w", profit.err)
	}
	if widgets.err != nil {
		return nil, fmt.Errorf("dashboard: widgets: %w", widgets.err)
	}

	resp := &dto.DashboardOverviewResponse{
		Stock: dto.OverviewStock{
			TotalMedicines: stock.counts.TotalMedicines,
			LowStock:       stock.counts.LowStock,
			StockOut:       stock.counts.StockOut,
			Expired:        stock.counts.Expired,
			NearExpiry:     stock.counts.NearExpiry,
		},
		Sales: dto.OverviewSales{
			TodaySalesQty: sales.totals.TodayQty,
			TotalSalesQty: sales.totals.TotalQty,
			RevenueToday:  sales.totals.RevenueToday.Round(2),
			TotalRevenue:  sales.totals.TotalRevenue.Round(2),
		},
		Profit: dto.OverviewProfit{
			TodayProfit: profit.today.Round(2),
			TotalProfit: profit.total.Round(2),
		},
		TopSelling:  make([]dto.TopSellingDTO, 0, len(widgets.top)),
		Departments: make([]dto.DepartmentStockDTO, 0, len(widgets.depts)),
	}
	for _, row := range widgets.top {
		resp.TopSelling = append(resp.TopSelling, dto.TopSellingDTO{
			BrandName: row.BrandName,
			TotalSold: row.TotalSold,
		})
	}
	for _, row := range widgets.depts {
		resp.Departments = append(resp.Departments, dto.DepartmentStockDTO{
			Department:  row.Department,
			TotalStock:  row.TotalStock,
			TotalProfit: row.TotalProfit.Round(2),
		})
	}
	return resp, nil
}

// Analytics construye la respuesta de GET /api/dashboard/analytics: resumen
// del negocio, tendencia de 7 días, inventario por sección, alertas y
// métricas de rotación.
func (uc *DashboardUseCase) Analytics(ctx context.Context) (*dto.DashboardAnalyticsResponse, error) {
	now := uc.now()
	weekStart := startOfDay(now).AddDate(0, 0, -(trendDays - 1))
	nearExpiry := uc.nearExpiryDays()

	totalRevenue, err := uc.totalRevenue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ingresos totales: %w", err)
	}
	transactions, err := uc.analyticsRepo.SalesCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: número de ventas: %w", err)
	}
	buyingValue, _, err := uc.analyticsRepo.InventoryValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: valor de inventario: %w", err)
	}
	trend, err := uc.analyticsRepo.SalesTrend(ctx, weekStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: tendencia de ventas: %w", err)
	}
	byCategory, err := uc.analyticsRepo.InventoryByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: inventario por sección: %w", err)
	}
	top, err := uc.analyticsRepo.TopSelling(ctx, dashboardTopSelling)
	if err != nil {
		return nil, fmt.Errorf("dashboard: top de ventas: %w", err)
	}
	alerts, err := uc.analyticsRepo.StockAlerts(ctx, now, nearExpiry)
	if err != nil {
		return nil, fmt.Errorf("dashboard: alertas de stock: %w", err)
	}
	weekSales, weekTx, err := uc.analyticsRepo.WeekSummary(ctx, weekStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: resumen semanal: %w", err)
	}
	counts, err := uc.analyticsRepo.StockCounts(ctx, now, nearExpiry)
	if err != nil {
		return nil, fmt.Errorf("dashboard: salud de inventario: %w", err)
	}
	soldUnits, inventoryUnits, err := uc.analyticsRepo.UnitsTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: rotación: %w", err)
	}

	avgOrder := decimal.Zero
	if transactions > 0 {
		avgOrder = totalRevenue.Div(decimal.NewFromInt(transactions)).Round(2)
	}
	turnover := 0.0
	if inventoryUnits > 0 {
		turnover = float64(soldUnits) / float64(inventoryUnits)
	}

	resp := &dto.DashboardAnalyticsResponse{
		Summary: dto.AnalyticsSummary{
			TotalRevenue:      totalRevenue.Round(2),
			TotalTransactions: transactions,
			AvgOrderValue:     avgOrder,
			InventoryValue:    buyingValue.Round(2),
		},
		SalesTrend:          make([]dto.SalesTrendDTO, 0, len(trend)),
		InventoryByCategory: make([]dto.CategoryValueDTO, 0, len(byCategory)),
		TopSelling:          make([]dto.TopSellingDTO, 0, len(top)),
		StockAlerts: dto.StockAlertsDTO{
			LowStock:   toAlertDTOs(alerts.LowStock),
			StockOut:   toAlertDTOs(alerts.StockOut),
			NearExpiry: toAlertDTOs(alerts.NearExpiry),
		},
		WeeklySummary: dto.WeeklySummaryDTO{
			WeekSales:    weekSales.Round(2),
			Transactions: weekTx,
		},
		InventoryHealth: dto.InventoryHealthDTO{
			TotalProducts: counts.TotalMedicines,
			LowStock:      counts.LowStock,
			NearExpiry:    counts.NearExpiry,
			StockOut:      counts.StockOut,
		},
		PerformanceMetrics: dto.PerformanceMetricsDTO{InventoryTurnover: turnover},
	}
	for _, row := range trend {
		resp.SalesTrend = append(resp.SalesTrend, dto.SalesTrendDTO{
			Day:        row.Day.Format("2006-01-02"),
			TotalSales: row.TotalSales.Round(2),
		})
	}
	for _, row := range byCategory {
		resp.InventoryByCategory = append(resp.InventoryByCategory, dto.CategoryValueDTO{
			Department: row.Department,
			Value:      row.Value.Round(2),
			Profit:     row.Profit.Round(2),
		})
	}
	for _, row := range top {
		resp.TopSelling = append(resp.TopSelling, dto.TopSellingDTO{
			BrandName: row.BrandName,
			TotalSold: row.TotalSold,
		})
	}
	return resp, nil
}

// ProfitSummary construye la respuesta de GET /api/dashboard/profit-summary:
// ganancia de hoy, de los últimos 7 días y de los últimos 30 días.
func (uc *DashboardUseCase) ProfitSummary(ctx context.Context) (*dto.ProfitSummaryResponse, error) {
	now := uc.now()
	todayStart := startOfDay(now)

	daily, err := uc.analyticsRepo.ProfitSince(ctx, todayStart)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ganancia diaria: %w", err)
	}
	weekly, err := uc.analyticsRepo.ProfitSince(ctx, todayStart.AddDate(0, 0, -trendDays))
	if err != nil {
		return nil, fmt.Errorf("dashboard: ganancia semanal: %w", err)
	}
	monthly, err := uc.analyticsRepo.ProfitSince(ctx, todayStart.AddDate(0, 0, -monthlyWindowDays))
	if err != nil {
		return nil, fmt.Errorf("dashboard: ganancia mensual: %w", err)
	}

	return &dto.ProfitSummaryResponse{
		DailyProfit:   daily.Round(2),
		WeeklyProfit:  weekly.Round(2),
		MonthlyProfit: monthly.Round(2),
	}, nil
}

func (uc *DashboardUseCase) totalRevenue(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	totals, err := uc.analyticsRepo.SalesTotals(ctx, now)
	if err != nil {
		return decimal.Zero, err
	}
	return totals.TotalRevenue, nil
}

func (uc *DashboardUseCase) nearExpiryDays() int {
	setting, err := uc.settingRepo.Get()
	if err != nil || setting == nil {
		return defaultNearExpiryDays
	}
	return setting.ExpiryReminderDays
}

func toAlertDTOs(rows []repository.AlertMedicineRow) []dto.AlertMedicineDTO {
	out := make([]dto.AlertMedicineDTO, 0, len(rows))
	for _, row := range rows {
		d := dto.AlertMedicineDTO{
			ID:                row.ID,
			BrandName:         row.BrandName,
			TotalStock:        row.TotalStock,
			LowStockThreshold: row.LowStockThreshold,
		}
		if !row.ExpireDate.IsZero() {
			d.ExpireDate = row.ExpireDate.Format("2006-01-02")
		}
		out = append(out, d)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
