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

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implementación del puerto DepartmentRepository sobre PostgreSQL.
type DepartmentRepo struct {
	q Querier
}

// NewDepartmentRepository construye el adaptador de persistencia para secciones.
func NewDepartmentRepository(q Querier) *DepartmentRepo {
	return &DepartmentRepo{q: q}
}

// Create persiste una sección. Un código duplicado devuelve domain.ErrDuplicate.
func (r *DepartmentRepo) Create(d *entity.Department) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO departments (id, code, name) VALUES ($1, $2, $3)`,
		d.ID, d.Code, d.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, d.Code)
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID obtiene una sección por ID.
func (r *DepartmentRepo) GetByID(id string) (*entity.Department, error) {
	var d entity.Department
	err := r.q.QueryRow(context.Background(),
		`SELECT id, code, name FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Code, &d.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// Update actualiza código y nombre de una sección.
func (r *DepartmentRepo) Update(d *entity.Department) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE departments SET code = $2, name = $3 WHERE id = $1`,
		d.ID, d.Code, d.Name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, d.Code)
		}
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

// Delete elimina una sección. La FK de medicines es ON DELETE SET NULL: los
// medicamentos asociados quedan sin sección.
func (r *DepartmentRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

// List lista secciones con búsqueda y paginación.
func (r *DepartmentRepo) List(filter repository.DepartmentFilter) ([]*entity.Department, int, error) {
	var where []string
	var args []any
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM departments`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT id, code, name FROM departments%s ORDER BY code LIMIT $%d OFFSET $%d`,
		cond, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Code, &d.Name); err != nil {
			return nil, 0, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, total, rows.Err()
}
