package sales

import (
	"context"

	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción con los
// repositorios de medicamentos y ventas atados a la misma tx. Si fn retorna
// error se hace Rollback; si no, Commit.
type SalesTxRunner interface {
	Run(ctx context.Context, fn func(
		medRepo repository.MedicineRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// VoucherPDFGenerator genera el PDF imprimible del voucher de una venta.
type VoucherPDFGenerator interface {
	GenerateVoucherPDF(ctx context.Context, sale *entity.Sale, items []VoucherLine) ([]byte, error)
}

// VoucherLine línea del voucher con el nombre del medicamento resuelto.
type VoucherLine struct {
	MedicineName string
	BatchNo      string
	Quantity     int
	SaleType     string
	Price        string
	Total        string
}

// SoldItemsExporter exporta líneas vendidas a un libro XLSX.
type SoldItemsExporter interface {
	ExportSoldItems(rows []repository.SoldItemRow) ([]byte, error)
}
