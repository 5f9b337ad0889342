package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago aceptados.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
)

// Tipos de venta de una línea: por unidad suelta o por cartón completo.
const (
	SaleTypeUnit   = "unit"
	SaleTypeCarton = "carton"
)

// ValidPaymentMethod valida el enum de método de pago.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// ValidSaleType valida el enum de tipo de venta.
func ValidSaleType(t string) bool {
	return t == SaleTypeUnit || t == SaleTypeCarton
}

// Sale es la cabecera de una venta. Se crea atómicamente con sus líneas y es
// inmutable después: los totales quedan congelados al momento de la venta.
type Sale struct {
	ID               string
	VoucherNumber    string // SLS-YYYYMMDD-NNNN, único
	SoldBy           string
	CustomerName     string
	CustomerPhone    string
	TINNumber        string
	SaleDate         time.Time
	PaymentMethod    string
	DiscountPct      decimal.Decimal // 0–100
	BasePrice        decimal.Decimal // suma de líneas antes de descuento
	DiscountedAmount decimal.Decimal
	TotalAmount      decimal.Decimal // BasePrice - DiscountedAmount
	DiscountedBy     string
}

// SaleItem es una línea de venta. Price es el precio unitario congelado al
// momento de la venta; nunca se recalcula desde el medicamento.
type SaleItem struct {
	ID         string
	SaleID     string
	MedicineID string
	Quantity   int
	Price      decimal.Decimal
	SaleType   string // unit | carton
}

// Total devuelve el total de la línea (cantidad × precio congelado).
func (i *SaleItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
