package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

// SaleQueryUseCase lecturas del historial de ventas: detalle, listados,
// medicamentos vendidos, exportación a Excel y voucher PDF. No muta stock.
type SaleQueryUseCase struct {
	saleRepo repository.SaleRepository
	medRepo  repository.MedicineRepository
	exporter SoldItemsExporter
	pdfGen   VoucherPDFGenerator
}

// NewSaleQueryUseCase construye el caso de uso de lectura.
func NewSaleQueryUseCase(
	saleRepo repository.SaleRepository,
	medRepo repository.MedicineRepository,
	exporter SoldItemsExporter,
	pdfGen VoucherPDFGenerator,
) *SaleQueryUseCase {
	return &SaleQueryUseCase{saleRepo: saleRepo, medRepo: medRepo, exporter: exporter, pdfGen: pdfGen}
}

// GetSale devuelve una venta completa con sus líneas y el snapshot del
// medicamento de cada línea.
func (uc *SaleQueryUseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, items, meds, err := uc.loadSale(id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items, meds), nil
}

// ListSales lista ventas con búsqueda por cliente/teléfono/voucher.
func (uc *SaleQueryUseCase) ListSales(ctx context.Context, in dto.SaleFilterRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	salesList, total, err := uc.saleRepo.List(repository.SaleFilter{
		Search:        in.Search,
		VoucherNumber: in.VoucherNumber,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleListResponse{
		Data: make([]dto.SaleResponse, 0, len(salesList)),
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, s := range salesList {
		items, err := uc.saleRepo.GetItems(s.ID)
		if err != nil {
			return nil, err
		}
		meds, err := uc.lookupMedicines(items)
		if err != nil {
			return nil, err
		}
		resp.Data = append(resp.Data, *toSaleResponse(s, items, meds))
	}
	return resp, nil
}

// ListSoldItems lista las líneas vendidas con los datos del medicamento.
func (uc *SaleQueryUseCase) ListSoldItems(ctx context.Context, in dto.SaleFilterRequest) (*dto.SoldItemListResponse, error) {
	in.DefaultPage()
	rows, total, err := uc.saleRepo.ListSoldItems(repository.SaleFilter{
		Search:        in.Search,
		VoucherNumber: in.VoucherNumber,
		Limit:         in.Limit,
		Offset:        in.Offset,
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.SoldItemListResponse{
		Data: make([]dto.SoldItemResponse, 0, len(rows)),
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, r := range rows {
		resp.Data = append(resp.Data, dto.SoldItemResponse{
			VoucherNumber: r.VoucherNumber,
			CustomerName:  r.CustomerName,
			MedicineName:  r.MedicineName,
			BatchNo:       r.BatchNo,
			ExpireDate:    r.ExpireDate.Format("2006-01-02"),
			Quantity:      r.Quantity,
			SaleType:      r.SaleType,
			UnitPrice:     r.UnitPrice,
			TotalPrice:    r.TotalPrice,
			SaleDate:      r.SaleDate.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// ExportSoldItemsExcel genera el XLSX de todas las líneas vendidas.
// Devuelve ErrNotFound si no hay registros.
func (uc *SaleQueryUseCase) ExportSoldItemsExcel(ctx context.Context) ([]byte, error) {
	rows, _, err := uc.saleRepo.ListSoldItems(repository.SaleFilter{Limit: 0, Offset: 0})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no hay medicamentos vendidos", domain.ErrNotFound)
	}
	return uc.exporter.ExportSoldItems(rows)
}

// VoucherPDF genera el PDF imprimible del voucher de una venta.
func (uc *SaleQueryUseCase) VoucherPDF(ctx context.Context, id string) ([]byte, error) {
	sale, items, meds, err := uc.loadSale(id)
	if err != nil {
		return nil, err
	}
	lines := make([]VoucherLine, 0, len(items))
	for i, it := range items {
		name, batch := it.MedicineID, ""
		if meds[i] != nil {
			name, batch = meds[i].BrandName, meds[i].BatchNo
		}
		lines = append(lines, VoucherLine{
			MedicineName: name,
			BatchNo:      batch,
			Quantity:     it.Quantity,
			SaleType:     it.SaleType,
			Price:        it.Price.StringFixed(2),
			Total:        it.Total().StringFixed(2),
		})
	}
	return uc.pdfGen.GenerateVoucherPDF(ctx, sale, lines)
}

func (uc *SaleQueryUseCase) loadSale(id string) (*entity.Sale, []*entity.SaleItem, []*entity.Medicine, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if sale == nil {
		return nil, nil, nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItems(id)
	if err != nil {
		return nil, nil, nil, err
	}
	meds, err := uc.lookupMedicines(items)
	if err != nil {
		return nil, nil, nil, err
	}
	return sale, items, meds, nil
}

func (uc *SaleQueryUseCase) lookupMedicines(items []*entity.SaleItem) ([]*entity.Medicine, error) {
	meds := make([]*entity.Medicine, len(items))
	for i, it := range items {
		med, err := uc.medRepo.GetByID(it.MedicineID)
		if err != nil {
			return nil, err
		}
		meds[i] = med
	}
	return meds, nil
}
