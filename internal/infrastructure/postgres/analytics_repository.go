package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// alertRowLimit tope de filas por lista de alertas del dashboard.
const alertRowLimit = 10

// AnalyticsRepo consultas de solo lectura del dashboard. Todas las métricas se
// calculan en SQL con agregados; ninguna consulta escribe.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// StockCounts devuelve los conteos de inventario del dashboard. El stock total
// de cada lote es stock_carton * units_per_carton + stock_in_unit.
func (r *AnalyticsRepo) StockCounts(ctx context.Context, today time.Time, nearExpiryDays int) (repository.StockCountsResult, error) {
	const query = `
	SELECT
	    COUNT(*)                                                                         AS total,
	    COUNT(*) FILTER (WHERE stock_carton * units_per_carton + stock_in_unit <= low_stock_threshold
	                       AND stock_carton * units_per_carton + stock_in_unit > 0)      AS low_stock,
	    COUNT(*) FILTER (WHERE stock_carton * units_per_carton + stock_in_unit <= 0)     AS stock_out,
	    COUNT(*) FILTER (WHERE expire_date < $1::date)                                   AS expired,
	    COUNT(*) FILTER (WHERE expire_date >= $1::date
	                       AND expire_date <= $1::date + make_interval(days => $2))      AS near_expiry
	FROM medicines`

	var res repository.StockCountsResult
	err := r.pool.QueryRow(ctx, query, today.Format("2006-01-02"), nearExpiryDays).Scan(
		&res.TotalMedicines, &res.LowStock, &res.StockOut, &res.Expired, &res.NearExpiry,
	)
	if err != nil {
		return res, fmt.Errorf("analytics.StockCounts: %w", err)
	}
	return res, nil
}

// SalesTotals devuelve cantidades e ingresos de ventas (hoy y acumulado).
func (r *AnalyticsRepo) SalesTotals(ctx context.Context, today time.Time) (repository.SalesTotalsResult, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE sale_date::date = $1::date)                    AS today_qty,
	    COUNT(*)                                                              AS total_qty,
	    COALESCE(SUM(total_amount) FILTER (WHERE sale_date::date = $1::date), 0) AS revenue_today,
	    COALESCE(SUM(total_amount), 0)                                        AS total_revenue
	FROM sales`

	var res repository.SalesTotalsResult
	err := r.pool.QueryRow(ctx, query, today.Format("2006-01-02")).Scan(
		&res.TodayQty, &res.TotalQty, &res.RevenueToday, &res.TotalRevenue,
	)
	if err != nil {
		return res, fmt.Errorf("analytics.SalesTotals: %w", err)
	}
	return res, nil
}

// ProfitSince suma (precio de venta - precio de compra) × cantidad de las
// líneas vendidas desde la fecha dada (inclusive). Con fecha cero suma todo el
// histórico. Usa el precio congelado de la línea, no el precio vigente.
func (r *AnalyticsRepo) ProfitSince(ctx context.Context, from time.Time) (decimal.Decimal, error) {
	query := `
	SELECT COALESCE(SUM((si.price - m.buying_price) * si.quantity), 0) AS profit
	FROM sale_items si
	JOIN sales     s ON s.id = si.sale_id
	JOIN medicines m ON m.id = si.medicine_id`
	args := []any{}
	if !from.IsZero() {
		query += ` WHERE s.sale_date >= $1`
		args = append(args, from)
	}

	var profit decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&profit); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.ProfitSince: %w", err)
	}
	return profit, nil
}

// TopSelling devuelve los `limit` medicamentos con más unidades vendidas.
func (r *AnalyticsRepo) TopSelling(ctx context.Context, limit int) ([]repository.TopSellingRow, error) {
	const query = `
	SELECT
	    m.brand_name       AS brand_name,
	    SUM(si.quantity)   AS total_sold
	FROM sale_items si
	JOIN medicines m ON m.id = si.medicine_id
	GROUP BY m.brand_name
	ORDER BY total_sold DESC
	LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopSelling: %w", err)
	}
	defer rows.Close()

	var results []repository.TopSellingRow
	for rows.Next() {
		var row repository.TopSellingRow
		if err := rows.Scan(&row.BrandName, &row.TotalSold); err != nil {
			return nil, fmt.Errorf("analytics.TopSelling scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// DepartmentStock agrupa stock total y ganancia potencial por sección. Los
// lotes sin sección se consolidan en "Sin sección".
func (r *AnalyticsRepo) DepartmentStock(ctx context.Context) ([]repository.DepartmentStockRow, error) {
	const query = `
	SELECT
	    COALESCE(d.name, 'Sin sección')                                                AS department,
	    COALESCE(SUM(m.stock_carton * m.units_per_carton + m.stock_in_unit), 0)        AS total_stock,
	    COALESCE(SUM((m.price - m.buying_price)
	                 * (m.stock_carton * m.units_per_carton + m.stock_in_unit)), 0)    AS total_profit
	FROM medicines m
	LEFT JOIN departments d ON d.id = m.department_id
	GROUP BY d.name
	ORDER BY total_stock DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.DepartmentStock: %w", err)
	}
	defer rows.Close()

	var results []repository.DepartmentStockRow
	for rows.Next() {
		var row repository.DepartmentStockRow
		if err := rows.Scan(&row.Department, &row.TotalStock, &row.TotalProfit); err != nil {
			return nil, fmt.Errorf("analytics.DepartmentStock scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// SalesTrend devuelve las ventas totales por día desde la fecha dada.
func (r *AnalyticsRepo) SalesTrend(ctx context.Context, from time.Time) ([]repository.SalesTrendRow, error) {
	const query = `
	SELECT
	    sale_date::date                 AS day,
	    COALESCE(SUM(total_amount), 0)  AS total_sales
	FROM sales
	WHERE sale_date >= $1
	GROUP BY sale_date::date
	ORDER BY day`

	rows, err := r.pool.Query(ctx, query, from)
	if err != nil {
		return nil, fmt.Errorf("analytics.SalesTrend: %w", err)
	}
	defer rows.Close()

	var results []repository.SalesTrendRow
	for rows.Next() {
		var row repository.SalesTrendRow
		if err := rows.Scan(&row.Day, &row.TotalSales); err != nil {
			return nil, fmt.Errorf("analytics.SalesTrend scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// InventoryValue devuelve el valor del stock a precio de compra y de venta.
func (r *AnalyticsRepo) InventoryValue(ctx context.Context) (buying, selling decimal.Decimal, err error) {
	const query = `
	SELECT
	    COALESCE(SUM(buying_price * (stock_carton * units_per_carton + stock_in_unit)), 0) AS buying_value,
	    COALESCE(SUM(price        * (stock_carton * units_per_carton + stock_in_unit)), 0) AS selling_value
	FROM medicines`

	if err := r.pool.QueryRow(ctx, query).Scan(&buying, &selling); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("analytics.InventoryValue: %w", err)
	}
	return buying, selling, nil
}

// InventoryByCategory agrupa valor de inventario (a precio de venta) y
// ganancia potencial por sección.
func (r *AnalyticsRepo) InventoryByCategory(ctx context.Context) ([]repository.CategoryValueRow, error) {
	const query = `
	SELECT
	    COALESCE(d.name, 'Sin sección')                                                AS department,
	    COALESCE(SUM(m.price * (m.stock_carton * m.units_per_carton + m.stock_in_unit)), 0) AS value,
	    COALESCE(SUM((m.price - m.buying_price)
	                 * (m.stock_carton * m.units_per_carton + m.stock_in_unit)), 0)    AS profit
	FROM medicines m
	LEFT JOIN departments d ON d.id = m.department_id
	GROUP BY d.name
	ORDER BY value DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.InventoryByCategory: %w", err)
	}
	defer rows.Close()

	var results []repository.CategoryValueRow
	for rows.Next() {
		var row repository.CategoryValueRow
		if err := rows.Scan(&row.Department, &row.Value, &row.Profit); err != nil {
			return nil, fmt.Errorf("analytics.InventoryByCategory scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// StockAlerts devuelve las tres listas de alertas del dashboard, cada una
// limitada a alertRowLimit filas.
func (r *AnalyticsRepo) StockAlerts(ctx context.Context, today time.Time, nearExpiryDays int) (repository.StockAlertsResult, error) {
	var res repository.StockAlertsResult
	day := today.Format("2006-01-02")

	lowStock, err := r.alertRows(ctx, `
	SELECT id, brand_name, stock_carton * units_per_carton + stock_in_unit, low_stock_threshold, expire_date
	FROM medicines
	WHERE stock_carton * units_per_carton + stock_in_unit <= low_stock_threshold
	  AND stock_carton * units_per_carton + stock_in_unit > 0
	ORDER BY stock_carton * units_per_carton + stock_in_unit ASC
	LIMIT $1`, alertRowLimit)
	if err != nil {
		return res, fmt.Errorf("analytics.StockAlerts low stock: %w", err)
	}

	stockOut, err := r.alertRows(ctx, `
	SELECT id, brand_name, stock_carton * units_per_carton + stock_in_unit, low_stock_threshold, expire_date
	FROM medicines
	WHERE stock_carton * units_per_carton + stock_in_unit <= 0
	ORDER BY brand_name
	LIMIT $1`, alertRowLimit)
	if err != nil {
		return res, fmt.Errorf("analytics.StockAlerts stock out: %w", err)
	}

	nearExpiry, err := r.alertRows(ctx, `
	SELECT id, brand_name, stock_carton * units_per_carton + stock_in_unit, low_stock_threshold, expire_date
	FROM medicines
	WHERE expire_date >= $2::date
	  AND expire_date <= $2::date + make_interval(days => $3)
	ORDER BY expire_date ASC
	LIMIT $1`, alertRowLimit, day, nearExpiryDays)
	if err != nil {
		return res, fmt.Errorf("analytics.StockAlerts near expiry: %w", err)
	}

	res.LowStock = lowStock
	res.StockOut = stockOut
	res.NearExpiry = nearExpiry
	return res, nil
}

func (r *AnalyticsRepo) alertRows(ctx context.Context, query string, args ...any) ([]repository.AlertMedicineRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []repository.AlertMedicineRow
	for rows.Next() {
		var row repository.AlertMedicineRow
		if err := rows.Scan(&row.ID, &row.BrandName, &row.TotalStock, &row.LowStockThreshold, &row.ExpireDate); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// WeekSummary devuelve las ventas totales y el número de transacciones desde
// la fecha dada.
func (r *AnalyticsRepo) WeekSummary(ctx context.Context, from time.Time) (decimal.Decimal, int64, error) {
	const query = `
	SELECT COALESCE(SUM(total_amount), 0) AS week_sales, COUNT(*) AS transactions
	FROM sales
	WHERE sale_date >= $1`

	var sales decimal.Decimal
	var transactions int64
	if err := r.pool.QueryRow(ctx, query, from).Scan(&sales, &transactions); err != nil {
		return decimal.Zero, 0, fmt.Errorf("analytics.WeekSummary: %w", err)
	}
	return sales, transactions, nil
}

// UnitsTotals devuelve unidades vendidas históricas y unidades en inventario.
// Las ventas por cartón cuentan por su equivalente en unidades.
func (r *AnalyticsRepo) UnitsTotals(ctx context.Context) (sold, inventory int64, err error) {
	const soldQuery = `
	SELECT COALESCE(SUM(
	    CASE WHEN si.sale_type = 'carton' THEN si.quantity * m.units_per_carton
	         ELSE si.quantity END), 0) AS units_sold
	FROM sale_items si
	JOIN medicines m ON m.id = si.medicine_id`
	if err := r.pool.QueryRow(ctx, soldQuery).Scan(&sold); err != nil {
		return 0, 0, fmt.Errorf("analytics.UnitsTotals sold: %w", err)
	}

	const invQuery = `
	SELECT COALESCE(SUM(stock_carton * units_per_carton + stock_in_unit), 0) AS units_inventory
	FROM medicines`
	if err := r.pool.QueryRow(ctx, invQuery).Scan(&inventory); err != nil {
		return 0, 0, fmt.Errorf("analytics.UnitsTotals inventory: %w", err)
	}
	return sold, inventory, nil
}

// SalesCount devuelve el número total de ventas registradas.
func (r *AnalyticsRepo) SalesCount(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&count); err != nil {
		return 0, fmt.Errorf("analytics.SalesCount: %w", err)
	}
	return count, nil
}
