package inventory

import "github.com/tu-usuario/farmacia-pos/internal/domain/entity"

// MedicineExporter genera el archivo Excel del catálogo de medicamentos.
type MedicineExporter interface {
	ExportMedicines(meds []*entity.Medicine) ([]byte, error)
}
