// Package excel genera los archivos XLSX de exportación del catálogo y del
// historial de ventas.
package excel

import (
	"fmt"

	"github.com/tu-usuario/farmacia-pos/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pos/internal/application/sales"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
	"github.com/xuri/excelize/v2"
)

var _ inventory.MedicineExporter = (*Exporter)(nil)
var _ sales.SoldItemsExporter = (*Exporter)(nil)

const sheetName = "Sheet1"

// Exporter adaptador de exportación a Excel (excelize).
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportMedicines genera el catálogo completo de medicamentos como XLSX.
func (e *Exporter) ExportMedicines(meds []*entity.Medicine) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{
		"Marca", "Nombre", "Lote", "Vencimiento", "Precio compra", "Precio venta",
		"Cartones", "Unid/cartón", "Unid sueltas", "Stock total", "Presentación", "Proveedor",
	}
	writeHeaders(f, headers)

	for i, m := range meds {
		row := i + 2
		setRow(f, row,
			m.BrandName, m.ItemName, m.BatchNo, m.ExpireDate.Format("2006-01-02"),
			m.BuyingPrice.StringFixed(2), m.Price.StringFixed(2),
			m.StockCarton, m.UnitsPerCarton, m.StockInUnit, m.TotalUnits(),
			m.Unit, m.CompanyName,
		)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel medicines: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportSoldItems genera el historial de líneas vendidas como XLSX.
func (e *Exporter) ExportSoldItems(rows []repository.SoldItemRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{
		"Voucher", "Cliente", "Medicamento", "Lote", "Vencimiento",
		"Cantidad", "Tipo", "Precio unitario", "Total", "Fecha de venta",
	}
	writeHeaders(f, headers)

	for i, r := range rows {
		rowNo := i + 2
		setRow(f, rowNo,
			r.VoucherNumber, r.CustomerName, r.MedicineName, r.BatchNo,
			r.ExpireDate.Format("2006-01-02"), r.Quantity, r.SaleType,
			r.UnitPrice.StringFixed(2), r.TotalPrice.StringFixed(2),
			r.SaleDate.Format("2006-01-02 15:04"),
		)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel sold items: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeaders(f *excelize.File, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}
}

func setRow(f *excelize.File, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, v)
	}
}
