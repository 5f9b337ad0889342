package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
)

// SaleFilter filtros de búsqueda del historial de ventas.
type SaleFilter struct {
	Search        string // busca en nombre/teléfono de cliente y voucher
	VoucherNumber string
	Limit         int
	Offset        int
}

// SoldItemRow línea vendida con los datos del medicamento, para el listado de
// medicamentos vendidos y la exportación a Excel.
type SoldItemRow struct {
	VoucherNumber string
	CustomerName  string
	MedicineName  string
	BatchNo       string
	ExpireDate    time.Time
	Quantity      int
	SaleType      string
	UnitPrice     decimal.Decimal
	TotalPrice    decimal.Decimal
	SaleDate      time.Time
}

// SaleRepository puerto de persistencia de ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	// LastVoucherNumber devuelve el voucher más alto que empieza con el
	// prefijo del día ("" si no hay ventas ese día). Debe ejecutarse dentro
	// de la transacción de la venta.
	LastVoucherNumber(prefix string) (string, error)
	List(filter SaleFilter) ([]*entity.Sale, int, error)
	ListSoldItems(filter SaleFilter) ([]SoldItemRow, int, error)
}
