package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

const medicineColumns = `id, brand_name, item_name, batch_no, manufacture_date, expire_date,
		buying_price, price, stock_carton, units_per_carton, stock_in_unit,
		low_stock_threshold, unit, company_name, fsno, department_id, created_by,
		created_at, updated_at`

// MedicineRepo implementación del puerto MedicineRepository sobre PostgreSQL (usable con pool o tx).
type MedicineRepo struct {
	q Querier
}

// NewMedicineRepository construye el adaptador de persistencia para medicamentos. Pasar pool o tx (Querier).
func NewMedicineRepository(q Querier) *MedicineRepo {
	return &MedicineRepo{q: q}
}

// Create persiste un nuevo lote. batch_no duplicado devuelve domain.ErrDuplicate.
func (r *MedicineRepo) Create(m *entity.Medicine) error {
	query := `
		INSERT INTO medicines (id, brand_name, item_name, batch_no, manufacture_date, expire_date,
			buying_price, price, stock_carton, units_per_carton, stock_in_unit,
			low_stock_threshold, unit, company_name, fsno, department_id, created_by,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.BrandName, m.ItemName, m.BatchNo, m.ManufactureDate, m.ExpireDate,
		m.BuyingPrice, m.Price, m.StockCarton, m.UnitsPerCarton, m.StockInUnit,
		m.LowStockThreshold, m.Unit, m.CompanyName, m.FSNO, nullIfEmpty(m.DepartmentID), m.CreatedBy,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: batch_no %s", domain.ErrDuplicate, m.BatchNo)
		}
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *MedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get medicine")
}

// GetByIDForUpdate obtiene un lote bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción; la fila queda bloqueada hasta
// el Commit/Rollback.
func (r *MedicineRepo) GetByIDForUpdate(id string) (*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "lock medicine")
}

// Update actualiza un lote completo.
func (r *MedicineRepo) Update(m *entity.Medicine) error {
	query := `
		UPDATE medicines SET brand_name = $2, item_name = $3, batch_no = $4, manufacture_date = $5,
			expire_date = $6, buying_price = $7, price = $8, stock_carton = $9,
			units_per_carton = $10, stock_in_unit = $11, low_stock_threshold = $12,
			unit = $13, company_name = $14, fsno = $15, department_id = $16, updated_at = $17
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.BrandName, m.ItemName, m.BatchNo, m.ManufactureDate,
		m.ExpireDate, m.BuyingPrice, m.Price, m.StockCarton,
		m.UnitsPerCarton, m.StockInUnit, m.LowStockThreshold,
		m.Unit, m.CompanyName, m.FSNO, nullIfEmpty(m.DepartmentID), m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: batch_no %s", domain.ErrDuplicate, m.BatchNo)
		}
		return fmt.Errorf("update medicine: %w", err)
	}
	return nil
}

// UpdateStock reemplaza ambos contadores de stock de la fila.
func (r *MedicineRepo) UpdateStock(id string, cartons, units int) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE medicines SET stock_carton = $2, stock_in_unit = $3, updated_at = now() WHERE id = $1`,
		id, cartons, units,
	)
	if err != nil {
		return fmt.Errorf("update medicine stock: %w", err)
	}
	return nil
}

// Delete elimina un lote. Si tiene líneas de venta asociadas la FK RESTRICT
// lo impide y se devuelve domain.ErrConflict.
func (r *MedicineRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el medicamento tiene ventas registradas", domain.ErrConflict)
		}
		return fmt.Errorf("delete medicine: %w", err)
	}
	return nil
}

// List lista el catálogo con filtros dinámicos, orden y paginación. Limit <= 0
// desactiva la paginación (exportaciones y analítica del catálogo).
func (r *MedicineRepo) List(filter repository.MedicineFilter) ([]*entity.Medicine, int, error) {
	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.DepartmentID != "" {
		where = append(where, "department_id = "+arg(filter.DepartmentID))
	}
	if filter.Unit != "" {
		where = append(where, "unit = "+arg(filter.Unit))
	}
	if filter.BrandName != "" {
		where = append(where, "brand_name ILIKE "+arg("%"+filter.BrandName+"%"))
	}
	if filter.ItemName != "" {
		where = append(where, "item_name ILIKE "+arg("%"+filter.ItemName+"%"))
	}
	if filter.BatchNo != "" {
		where = append(where, "batch_no ILIKE "+arg("%"+filter.BatchNo+"%"))
	}
	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf(
			"(brand_name ILIKE %s OR item_name ILIKE %s OR batch_no ILIKE %s OR company_name ILIKE %s)",
			p, p, p, p))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM medicines`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medicines: %w", err)
	}

	orderBy := "created_at DESC"
	switch filter.OrderBy {
	case "expire_date":
		orderBy = "expire_date ASC"
	case "price":
		orderBy = "price ASC"
	case "brand_name":
		orderBy = "brand_name ASC"
	}
	query := `SELECT ` + medicineColumns + ` FROM medicines` + cond + ` ORDER BY ` + orderBy
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list medicines: %w", err)
	}
	defer rows.Close()
	list, err := r.scanRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAlerts devuelve los lotes vencidos o con stock total bajo el umbral.
func (r *MedicineRepo) ListAlerts(today string) ([]*entity.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines
		WHERE expire_date < $1::date
		   OR (stock_carton * units_per_carton + stock_in_unit) <= low_stock_threshold
		ORDER BY expire_date ASC`
	rows, err := r.q.Query(context.Background(), query, today)
	if err != nil {
		return nil, fmt.Errorf("list medicine alerts: %w", err)
	}
	defer rows.Close()
	return r.scanRows(rows)
}

func (r *MedicineRepo) scanOne(row pgx.Row, op string) (*entity.Medicine, error) {
	var m entity.Medicine
	var deptID *string
	err := row.Scan(
		&m.ID, &m.BrandName, &m.ItemName, &m.BatchNo, &m.ManufactureDate, &m.ExpireDate,
		&m.BuyingPrice, &m.Price, &m.StockCarton, &m.UnitsPerCarton, &m.StockInUnit,
		&m.LowStockThreshold, &m.Unit, &m.CompanyName, &m.FSNO, &deptID, &m.CreatedBy,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if deptID != nil {
		m.DepartmentID = *deptID
	}
	return &m, nil
}

func (r *MedicineRepo) scanRows(rows pgx.Rows) ([]*entity.Medicine, error) {
	var list []*entity.Medicine
	for rows.Next() {
		var m entity.Medicine
		var deptID *string
		if err := rows.Scan(
			&m.ID, &m.BrandName, &m.ItemName, &m.BatchNo, &m.ManufactureDate, &m.ExpireDate,
			&m.BuyingPrice, &m.Price, &m.StockCarton, &m.UnitsPerCarton, &m.StockInUnit,
			&m.LowStockThreshold, &m.Unit, &m.CompanyName, &m.FSNO, &deptID, &m.CreatedBy,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		if deptID != nil {
			m.DepartmentID = *deptID
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// nullIfEmpty convierte "" en NULL para columnas FK opcionales.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
