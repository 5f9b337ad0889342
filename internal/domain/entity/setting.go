package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Setting es la configuración global de la farmacia (fila única).
// Se crea una sola vez en el arranque (bootstrap explícito), se actualiza en
// el lugar y nunca se elimina.
type Setting struct {
	ID                 string
	Discount           decimal.Decimal // descuento por defecto (0–100)
	LowStockThreshold  int
	ExpiryReminderDays int
	UpdatedAt          time.Time
}
