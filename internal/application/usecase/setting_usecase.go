package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// Valores iniciales de la fila única cuando la configuración no los define.
const (
	defaultLowStockThreshold  = 10
	defaultExpiryReminderDays = 30
)

// SettingDefaults valores de siembra de la fila de configuración, tomados de
// la configuración de la aplicación.
type SettingDefaults struct {
	Discount           int // porcentaje 0-100
	LowStockThreshold  int
	ExpiryReminderDays int
}

// SettingUseCase gestiona la configuración global de la farmacia: una fila
// única que se crea en el arranque, se lee y se actualiza en el lugar. Nunca
// se elimina ni se crea una segunda.
type SettingUseCase struct {
	repo     repository.SettingRepository
	defaults SettingDefaults
	now      func() time.Time
}

// NewSettingUseCase construye el caso de uso. Los defaults en cero o
// negativos se normalizan a los valores de fábrica.
func NewSettingUseCase(repo repository.SettingRepository, defaults SettingDefaults) *SettingUseCase {
	if defaults.LowStockThreshold <= 0 {
		defaults.LowStockThreshold = defaultLowStockThreshold
	}
	if defaults.ExpiryReminderDays <= 0 {
		defaults.ExpiryReminderDays = defaultExpiryReminderDays
	}
	if defaults.Discount < 0 || defaults.Discount > 100 {
		defaults.Discount = 0
	}
	return &SettingUseCase{repo: repo, defaults: defaults, now: time.Now}
}

// EnsureDefaults crea la fila de configuración con los valores iniciales si
// aún no existe. Se llama una vez en el arranque del servidor.
func (uc *SettingUseCase) EnsureDefaults() error {
	setting, err := uc.repo.Get()
	if err != nil {
		return err
	}
	if setting != nil {
		return nil
	}
	return uc.repo.Create(&entity.Setting{
		ID:                 uuid.New().String(),
		Discount:           decimal.NewFromInt(int64(uc.defaults.Discount)),
		LowStockThreshold:  uc.defaults.LowStockThreshold,
		ExpiryReminderDays: uc.defaults.ExpiryReminderDays,
		UpdatedAt:          uc.now(),
	})
}

// Get devuelve la configuración vigente.
func (uc *SettingUseCase) Get() (*dto.SettingResponse, error) {
	setting, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("%w: la configuración no está inicializada", domain.ErrNotFound)
	}
	return toSettingResponse(setting), nil
}

// Update aplica una edición parcial sobre la configuración.
func (uc *SettingUseCase) Update(in dto.UpdateSettingRequest) (*dto.SettingResponse, error) {
	setting, err := uc.repo.Get()
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("%w: la configuración no está inicializada", domain.ErrNotFound)
	}
	if in.Discount != nil {
		if in.Discount.IsNegative() || in.Discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
		}
		setting.Discount = *in.Discount
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, fmt.Errorf("%w: low_stock_threshold negativo", domain.ErrInvalidInput)
		}
		setting.LowStockThreshold = *in.LowStockThreshold
	}
	if in.ExpiryReminderDays != nil {
		if *in.ExpiryReminderDays < 0 {
			return nil, fmt.Errorf("%w: expiry_reminder_days negativo", domain.ErrInvalidInput)
		}
		setting.ExpiryReminderDays = *in.ExpiryReminderDays
	}
	setting.UpdatedAt = uc.now()
	if err := uc.repo.Update(setting); err != nil {
		return nil, err
	}
	return toSettingResponse(setting), nil
}

func toSettingResponse(s *entity.Setting) *dto.SettingResponse {
	return &dto.SettingResponse{
		ID:                 s.ID,
		Discount:           s.Discount,
		LowStockThreshold:  s.LowStockThreshold,
		ExpiryReminderDays: s.ExpiryReminderDays,
		UpdatedAt:          s.UpdatedAt.Format(time.RFC3339),
	}
}
