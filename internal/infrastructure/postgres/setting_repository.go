package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

var _ repository.SettingRepository = (*SettingRepo)(nil)

// SettingRepo implementación del puerto SettingRepository sobre PostgreSQL.
// La tabla settings tiene una sola fila; Get devuelve nil hasta que el
// bootstrap del arranque la crea.
type SettingRepo struct {
	q Querier
}

// NewSettingRepository construye el adaptador de persistencia para la configuración.
func NewSettingRepository(q Querier) *SettingRepo {
	return &SettingRepo{q: q}
}

// Get devuelve la fila de configuración o nil si aún no existe.
func (r *SettingRepo) Get() (*entity.Setting, error) {
	var s entity.Setting
	err := r.q.QueryRow(context.Background(),
		`SELECT id, discount, low_stock_threshold, expiry_reminder_days, updated_at
		 FROM settings LIMIT 1`,
	).Scan(&s.ID, &s.Discount, &s.LowStockThreshold, &s.ExpiryReminderDays, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &s, nil
}

// Create persiste la fila de configuración inicial.
func (r *SettingRepo) Create(s *entity.Setting) error {
	_, err := r.q.Exec(context.Background(),
		`INSERT INTO settings (id, discount, low_stock_threshold, expiry_reminder_days, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.Discount, s.LowStockThreshold, s.ExpiryReminderDays, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert setting: %w", err)
	}
	return nil
}

// Update actualiza la fila de configuración en el lugar.
func (r *SettingRepo) Update(s *entity.Setting) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE settings SET discount = $2, low_stock_threshold = $3, expiry_reminder_days = $4, updated_at = $5
		 WHERE id = $1`,
		s.ID, s.Discount, s.LowStockThreshold, s.ExpiryReminderDays, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update setting: %w", err)
	}
	return nil
}
