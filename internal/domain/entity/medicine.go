package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Presentaciones de venta de un medicamento (campo unit).
const (
	UnitPk          = "Pk"
	UnitBottle      = "Bottle"
	UnitSachet      = "Sachet"
	UnitAmpule      = "Ampule"
	UnitVial        = "Vial"
	UnitTin         = "Tin"
	UnitStrip       = "Strip"
	UnitTube        = "Tube"
	UnitBox         = "Box"
	UnitCosmetics   = "Cosmetics"
	UnitSuppository = "Suppository"
	UnitPcs         = "Pcs"
)

// Medicine es el libro mayor de stock y precios de un lote de medicamento.
// El stock vive en dos contadores: cartones completos (StockCarton) y unidades
// sueltas (StockInUnit); UnitsPerCarton es el factor de conversión. El stock
// disponible real es siempre TotalUnits().
type Medicine struct {
	ID                string
	BrandName         string
	ItemName          string
	BatchNo           string // único por lote
	ManufactureDate   *time.Time
	ExpireDate        time.Time
	BuyingPrice       decimal.Decimal
	Price             decimal.Decimal // precio de venta por unidad
	StockCarton       int
	UnitsPerCarton    int
	StockInUnit       int
	LowStockThreshold int
	Unit              string // presentación: Pk, Bottle, Strip...
	CompanyName       string
	FSNO              string
	DepartmentID      string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TotalUnits devuelve el stock total en unidades:
// StockCarton*UnitsPerCarton + StockInUnit. Fuente única de verdad del stock.
func (m *Medicine) TotalUnits() int {
	return m.StockCarton*m.UnitsPerCarton + m.StockInUnit
}

// IsOutOfStock indica si no queda stock disponible.
func (m *Medicine) IsOutOfStock() bool {
	return m.TotalUnits() <= 0
}

// IsExpired indica si el lote ya venció respecto a la fecha dada.
func (m *Medicine) IsExpired(today time.Time) bool {
	return dateOnly(today).After(dateOnly(m.ExpireDate))
}

// IsNearlyExpired indica si el lote vence dentro de los próximos `days` días.
func (m *Medicine) IsNearlyExpired(today time.Time, days int) bool {
	delta := int(dateOnly(m.ExpireDate).Sub(dateOnly(today)).Hours() / 24)
	return delta >= 0 && delta <= days
}

// ProfitPerItem devuelve la ganancia por unidad (venta - compra).
func (m *Medicine) ProfitPerItem() decimal.Decimal {
	return m.Price.Sub(m.BuyingPrice)
}

// TotalProfit devuelve la ganancia potencial del stock disponible.
func (m *Medicine) TotalProfit() decimal.Decimal {
	return m.ProfitPerItem().Mul(decimal.NewFromInt(int64(m.TotalUnits())))
}

// ApplyStock reemplaza ambos contadores. El caller (motor de ajuste de stock)
// es responsable de haber validado los invariantes antes de llamar.
func (m *Medicine) ApplyStock(cartons, units int) {
	m.StockCarton = cartons
	m.StockInUnit = units
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
