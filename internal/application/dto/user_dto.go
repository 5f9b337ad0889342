package dto

import "github.com/shopspring/decimal"

// RegisterRequest body para POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"` // admin | pharmacist | store_manager
}

// LoginRequest body para POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse usuario en respuestas (nunca incluye el hash).
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse token JWT + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// SettingResponse configuración global en respuestas.
type SettingResponse struct {
	ID                 string          `json:"id"`
	Discount           decimal.Decimal `json:"discount"`
	LowStockThreshold  int             `json:"low_stock_threshold"`
	ExpiryReminderDays int             `json:"expiry_reminder_days"`
	UpdatedAt          string          `json:"updated_at"`
}

// UpdateSettingRequest body parcial para PUT /api/settings.
type UpdateSettingRequest struct {
	Discount           *decimal.Decimal `json:"discount,omitempty"`
	LowStockThreshold  *int             `json:"low_stock_threshold,omitempty"`
	ExpiryReminderDays *int             `json:"expiry_reminder_days,omitempty"`
}
