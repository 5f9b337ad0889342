package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// fakeAnalyticsRepo devuelve valores fijos y registra las fechas "desde" con
// las que se consulta la ganancia, para verificar las ventanas temporales.
type fakeAnalyticsRepo struct {
	profitFroms    []time.Time
	profitByDay    map[string]decimal.Decimal // clave YYYY-MM-DD, "" = histórico
	stockErr       error
	lastNearExpiry int
}

func (r *fakeAnalyticsRepo) StockCounts(ctx context.Context, today time.Time, nearExpiryDays int) (repository.StockCountsResult, error) {
	r.lastNearExpiry = nearExpiryDays
	if r.stockErr != nil {
		return repository.StockCountsResult{}, r.stockErr
	}
	return repository.StockCountsResult{
		TotalMedicines: 42,
		LowStock:       4,
		StockOut:       2,
		Expired:        1,
		NearExpiry:     3,
	}, nil
}

func (r *fakeAnalyticsRepo) SalesTotals(ctx context.Context, today time.Time) (repository.SalesTotalsResult, error) {
	return repository.SalesTotalsResult{
		TodayQty:     5,
		TotalQty:     120,
		RevenueToday: decimal.RequireFromString("310.50"),
		TotalRevenue: decimal.RequireFromString("9000.00"),
	}, nil
}

func (r *fakeAnalyticsRepo) ProfitSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	r.profitFroms = append(r.profitFroms, from)
	key := ""
	if !from.IsZero() {
		key = from.Format("2006-01-02")
	}
	if v, ok := r.profitByDay[key]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

func (r *fakeAnalyticsRepo) TopSelling(ctx context.Context, limit int) ([]repository.TopSellingRow, error) {
	return []repository.TopSellingRow{
		{BrandName: "Paracetamol", TotalSold: 90},
		{BrandName: "Amoxicilina", TotalSold: 40},
	}, nil
}

func (r *fakeAnalyticsRepo) DepartmentStock(ctx context.Context) ([]repository.DepartmentStockRow, error) {
	return []repository.DepartmentStockRow{
		{Department: "Analgésicos", TotalStock: 500, TotalProfit: decimal.RequireFromString("120.00")},
	}, nil
}

func (r *fakeAnalyticsRepo) SalesTrend(ctx context.Context, from time.Time) ([]repository.SalesTrendRow, error) {
	return []repository.SalesTrendRow{
		{Day: from, TotalSales: decimal.RequireFromString("100.00")},
	}, nil
}

func (r *fakeAnalyticsRepo) InventoryValue(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.RequireFromString("2500.00"), decimal.RequireFromString("4100.00"), nil
}

func (r *fakeAnalyticsRepo) InventoryByCategory(ctx context.Context) ([]repository.CategoryValueRow, error) {
	return []repository.CategoryValueRow{
		{Department: "Sin sección", Value: decimal.RequireFromString("900.00"), Profit: decimal.RequireFromString("80.00")},
	}, nil
}

func (r *fakeAnalyticsRepo) StockAlerts(ctx context.Context, today time.Time, nearExpiryDays int) (repository.StockAlertsResult, error) {
	return repository.StockAlertsResult{
		LowStock: []repository.AlertMedicineRow{
			{ID: "m1", BrandName: "Losartán", TotalStock: 4, LowStockThreshold: 10},
		},
		NearExpiry: []repository.AlertMedicineRow{
			{ID: "m2", BrandName: "Ibuprofeno", ExpireDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		},
	}, nil
}

func (r *fakeAnalyticsRepo) WeekSummary(ctx context.Context, from time.Time) (decimal.Decimal, int64, error) {
	return decimal.RequireFromString("700.00"), 14, nil
}

func (r *fakeAnalyticsRepo) UnitsTotals(ctx context.Context) (int64, int64, error) {
	return 300, 1200, nil
}

func (r *fakeAnalyticsRepo) SalesCount(ctx context.Context) (int64, error) {
	return 40, nil
}

// fakeSettingRepo fija la ventana de "pronto a vencer".
type fakeSettingRepo struct {
	s *entity.Setting
}

func (r *fakeSettingRepo) Get() (*entity.Setting, error)  { return r.s, nil }
func (r *fakeSettingRepo) Create(s *entity.Setting) error { r.s = s; return nil }
func (r *fakeSettingRepo) Update(s *entity.Setting) error { r.s = s; return nil }

func newDashboard(repo *fakeAnalyticsRepo) *DashboardUseCase {
	uc := NewDashboardUseCase(repo, &fakeSettingRepo{})
	uc.now = func() time.Time { return time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC) }
	return uc
}

func TestOverview_AgregaLosCuatroGrupos(t *testing.T) {
	repo := &fakeAnalyticsRepo{profitByDay: map[string]decimal.Decimal{
		"2025-06-10": decimal.RequireFromString("55.25"),
		"":           decimal.RequireFromString("1234.567"),
	}}
	uc := newDashboard(repo)

	resp, err := uc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, resp.Stock.TotalMedicines)
	assert.Equal(t, 4, resp.Stock.LowStock)
	assert.Equal(t, int64(5), resp.Sales.TodaySalesQty)
	assert.True(t, resp.Sales.TotalRevenue.Equal(decimal.RequireFromString("9000.00")))
	assert.True(t, resp.Profit.TodayProfit.Equal(decimal.RequireFromString("55.25")))
	assert.True(t, resp.Profit.TotalProfit.Equal(decimal.RequireFromString("1234.57")),
		"la ganancia acumulada se redondea a centavos")
	require.Len(t, resp.TopSelling, 2)
	assert.Equal(t, "Paracetamol", resp.TopSelling[0].BrandName)
	require.Len(t, resp.Departments, 1)
}

func TestOverview_ErrorEnStockAbortaTodo(t *testing.T) {
	repo := &fakeAnalyticsRepo{stockErr: errors.New("conexión perdida")}
	uc := newDashboard(repo)

	_, err := uc.Overview(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conteos de stock")
}

func TestAnalytics_MetricasDerivadas(t *testing.T) {
	repo := &fakeAnalyticsRepo{profitByDay: map[string]decimal.Decimal{}}
	uc := newDashboard(repo)

	resp, err := uc.Analytics(context.Background())
	require.NoError(t, err)

	// 9000 / 40 transacciones = 225.00 por orden.
	assert.True(t, resp.Summary.AvgOrderValue.Equal(decimal.RequireFromString("225.00")))
	assert.True(t, resp.Summary.InventoryValue.Equal(decimal.RequireFromString("2500.00")),
		"el valor de inventario del resumen es a precio de compra")
	// 300 vendidas / 1200 en inventario = 0.25 de rotación.
	assert.InDelta(t, 0.25, resp.PerformanceMetrics.InventoryTurnover, 1e-9)
	assert.Equal(t, int64(14), resp.WeeklySummary.Transactions)
	require.Len(t, resp.StockAlerts.LowStock, 1)
	assert.Equal(t, "Losartán", resp.StockAlerts.LowStock[0].BrandName)
	require.Len(t, resp.StockAlerts.NearExpiry, 1)
	assert.Equal(t, "2025-07-01", resp.StockAlerts.NearExpiry[0].ExpireDate)
	assert.Empty(t, resp.StockAlerts.LowStock[0].ExpireDate,
		"sin fecha de vencimiento el campo queda vacío")
	require.Len(t, resp.SalesTrend, 1)
	assert.Equal(t, "2025-06-04", resp.SalesTrend[0].Day, "la serie arranca 6 días atrás")
}

func TestOverview_VentanaDeVencimientoDesdeConfiguracion(t *testing.T) {
	repo := &fakeAnalyticsRepo{profitByDay: map[string]decimal.Decimal{}}
	uc := NewDashboardUseCase(repo, &fakeSettingRepo{s: &entity.Setting{ExpiryReminderDays: 45}})
	uc.now = func() time.Time { return time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC) }

	_, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 45, repo.lastNearExpiry)
}

func TestOverview_SinConfiguracionUsaVentanaPorDefecto(t *testing.T) {
	repo := &fakeAnalyticsRepo{profitByDay: map[string]decimal.Decimal{}}
	uc := newDashboard(repo)

	_, err := uc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, repo.lastNearExpiry)
}

func TestProfitSummary_VentanasTemporales(t *testing.T) {
	repo := &fakeAnalyticsRepo{profitByDay: map[string]decimal.Decimal{
		"2025-06-10": decimal.RequireFromString("10.00"),
		"2025-06-03": decimal.RequireFromString("70.00"),
		"2025-05-11": decimal.RequireFromString("300.00"),
	}}
	uc := newDashboard(repo)

	resp, err := uc.ProfitSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, resp.DailyProfit.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, resp.WeeklyProfit.Equal(decimal.RequireFromString("70.00")))
	assert.True(t, resp.MonthlyProfit.Equal(decimal.RequireFromString("300.00")))

	require.Len(t, repo.profitFroms, 3)
	assert.Equal(t, "2025-06-10", repo.profitFroms[0].Format("2006-01-02"), "diaria: inicio del día")
	assert.Equal(t, "2025-06-03", repo.profitFroms[1].Format("2006-01-02"), "semanal: 7 días atrás")
	assert.Equal(t, "2025-05-11", repo.profitFroms[2].Format("2006-01-02"), "mensual: 30 días atrás")
}
