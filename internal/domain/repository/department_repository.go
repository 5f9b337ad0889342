package repository

import "github.com/tu-usuario/farmacia-pos/internal/domain/entity"

// DepartmentFilter búsqueda y paginación de secciones.
type DepartmentFilter struct {
	Search string // busca en código y nombre
	Limit  int
	Offset int
}

// DepartmentRepository puerto de persistencia de secciones de la farmacia.
type DepartmentRepository interface {
	Create(d *entity.Department) error
	GetByID(id string) (*entity.Department, error)
	Update(d *entity.Department) error
	Delete(id string) error
	List(filter DepartmentFilter) ([]*entity.Department, int, error)
}
