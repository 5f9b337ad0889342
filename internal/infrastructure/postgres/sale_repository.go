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

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, voucher_number, sold_by, customer_name, customer_phone, tin_number,
		sale_date, payment_method, discount_percentage, base_price, discounted_amount,
		total_amount, discounted_by`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de persistencia para ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera de una venta. Un voucher duplicado (índice
// único sobre voucher_number) devuelve domain.ErrConflict para que el caso de
// uso reintente con una secuencia fresca.
func (r *SaleRepo) Create(sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, voucher_number, sold_by, customer_name, customer_phone, tin_number,
			sale_date, payment_method, discount_percentage, base_price, discounted_amount,
			total_amount, discounted_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		sale.ID, sale.VoucherNumber, nullIfEmpty(sale.SoldBy), sale.CustomerName, sale.CustomerPhone,
		sale.TINNumber, sale.SaleDate, sale.PaymentMethod, sale.DiscountPct, sale.BasePrice,
		sale.DiscountedAmount, sale.TotalAmount, nullIfEmpty(sale.DiscountedBy),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: voucher %s duplicado", domain.ErrConflict, sale.VoucherNumber)
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de venta.
func (r *SaleRepo) CreateItem(item *entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, medicine_id, quantity, price, sale_type)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SaleID, item.MedicineID, item.Quantity, item.Price, item.SaleType,
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	var s entity.Sale
	var soldBy, discountedBy *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.VoucherNumber, &soldBy, &s.CustomerName, &s.CustomerPhone, &s.TINNumber,
		&s.SaleDate, &s.PaymentMethod, &s.DiscountPct, &s.BasePrice, &s.DiscountedAmount,
		&s.TotalAmount, &discountedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if soldBy != nil {
		s.SoldBy = *soldBy
	}
	if discountedBy != nil {
		s.DiscountedBy = *discountedBy
	}
	return &s, nil
}

// GetItems devuelve las líneas de una venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `SELECT id, sale_id, medicine_id, quantity, price, sale_type
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var items []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.MedicineID, &it.Quantity, &it.Price, &it.SaleType); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// LastVoucherNumber devuelve el voucher más alto del día ("" si no hay). El
// formato de secuencia con ceros a la izquierda hace que el orden lexicográfico
// coincida con el numérico dentro del mismo día.
func (r *SaleRepo) LastVoucherNumber(prefix string) (string, error) {
	var voucher string
	err := r.q.QueryRow(context.Background(),
		`SELECT voucher_number FROM sales WHERE voucher_number LIKE $1 ORDER BY voucher_number DESC LIMIT 1`,
		prefix+"%",
	).Scan(&voucher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last voucher: %w", err)
	}
	return voucher, nil
}

// List lista ventas con búsqueda y paginación, de la más reciente a la más
// antigua.
func (r *SaleRepo) List(filter repository.SaleFilter) ([]*entity.Sale, int, error) {
	cond, args := saleConditions(filter, "")
	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sales`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM sales%s ORDER BY sale_date DESC LIMIT $%d OFFSET $%d`,
		saleColumns, cond, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		var soldBy, discountedBy *string
		if err := rows.Scan(
			&s.ID, &s.VoucherNumber, &soldBy, &s.CustomerName, &s.CustomerPhone, &s.TINNumber,
			&s.SaleDate, &s.PaymentMethod, &s.DiscountPct, &s.BasePrice, &s.DiscountedAmount,
			&s.TotalAmount, &discountedBy,
		); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		if soldBy != nil {
			s.SoldBy = *soldBy
		}
		if discountedBy != nil {
			s.DiscountedBy = *discountedBy
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

// ListSoldItems lista las líneas vendidas con los datos del medicamento
// (JOIN), para el historial de medicamentos vendidos y la exportación.
func (r *SaleRepo) ListSoldItems(filter repository.SaleFilter) ([]repository.SoldItemRow, int, error) {
	cond, args := saleConditions(filter, "s.")
	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM sale_items si JOIN sales s ON s.id = si.sale_id JOIN medicines m ON m.id = si.medicine_id`+cond,
		args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sold items: %w", err)
	}

	query := `
		SELECT s.voucher_number, s.customer_name, m.brand_name, m.batch_no, m.expire_date,
			si.quantity, si.sale_type, si.price, si.price * si.quantity, s.sale_date
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN medicines m ON m.id = si.medicine_id` + cond + `
		ORDER BY s.sale_date DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sold items: %w", err)
	}
	defer rows.Close()

	var list []repository.SoldItemRow
	for rows.Next() {
		var row repository.SoldItemRow
		if err := rows.Scan(
			&row.VoucherNumber, &row.CustomerName, &row.MedicineName, &row.BatchNo, &row.ExpireDate,
			&row.Quantity, &row.SaleType, &row.UnitPrice, &row.TotalPrice, &row.SaleDate,
		); err != nil {
			return nil, 0, fmt.Errorf("scan sold item: %w", err)
		}
		list = append(list, row)
	}
	return list, total, rows.Err()
}

// saleConditions construye el WHERE compartido entre List y ListSoldItems.
// tablePrefix califica las columnas de sales cuando hay JOIN ("s.").
func saleConditions(filter repository.SaleFilter, tablePrefix string) (string, []any) {
	var where []string
	var args []any
	if filter.VoucherNumber != "" {
		args = append(args, filter.VoucherNumber)
		where = append(where, fmt.Sprintf("%svoucher_number = $%d", tablePrefix, len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		p := len(args)
		where = append(where, fmt.Sprintf(
			"(%scustomer_name ILIKE $%d OR %scustomer_phone ILIKE $%d OR %svoucher_number ILIKE $%d)",
			tablePrefix, p, tablePrefix, p, tablePrefix, p))
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}
