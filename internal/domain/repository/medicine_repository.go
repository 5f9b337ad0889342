package repository

import "github.com/tu-usuario/farmacia-pos/internal/domain/entity"

// MedicineFilter filtros de búsqueda del catálogo de medicamentos.
type MedicineFilter struct {
	DepartmentID string
	Unit         string
	BrandName    string // contiene, sin mayúsculas
	ItemName     string
	BatchNo      string
	Search       string // busca en brand, item, batch y compañía
	OrderBy      string // expire_date | price | brand_name
	Limit        int
	Offset       int
}

// MedicineRepository puerto de persistencia del libro mayor de medicamentos.
type MedicineRepository interface {
	Create(m *entity.Medicine) error
	GetByID(id string) (*entity.Medicine, error)
	// GetByIDForUpdate obtiene el medicamento bloqueando la fila
	// (SELECT FOR UPDATE). Solo tiene sentido dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Medicine, error)
	Update(m *entity.Medicine) error
	// UpdateStock reemplaza ambos contadores de stock de la fila.
	UpdateStock(id string, cartons, units int) error
	// Delete elimina el lote; devuelve domain.ErrConflict si está referenciado
	// por líneas de venta (FK RESTRICT).
	Delete(id string) error
	List(filter MedicineFilter) ([]*entity.Medicine, int, error)
	// ListAlerts devuelve lotes vencidos o con stock bajo el umbral.
	ListAlerts(today string) ([]*entity.Medicine, error)
}
