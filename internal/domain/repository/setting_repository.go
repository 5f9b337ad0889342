package repository

import "github.com/tu-usuario/farmacia-pos/internal/domain/entity"

// SettingRepository puerto de persistencia de la configuración (fila única).
type SettingRepository interface {
	// Get devuelve la fila de configuración o nil si aún no existe.
	Get() (*entity.Setting, error)
	Create(s *entity.Setting) error
	Update(s *entity.Setting) error
}
