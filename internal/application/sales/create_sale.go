package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
	"github.com/tu-usuario/farmacia-pos/internal/domain/stock"
	"github.com/tu-usuario/farmacia-pos/internal/domain/voucher"
)

// voucherRetries reintentos completos de la transacción ante una carrera del
// número de voucher (dos ventas del mismo día leyendo la misma secuencia).
const voucherRetries = 3

// CreateSaleUseCase orquesta la creación de una venta: bloqueo por fila de
// cada medicamento, ajuste de stock, congelamiento de precios, totales con
// descuento y asignación del voucher, todo en una sola transacción.
type CreateSaleUseCase struct {
	txRunner SalesTxRunner
	now      func() time.Time
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner SalesTxRunner) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, now: time.Now}
}

// CreateSale valida la entrada y ejecuta la venta de forma atómica. userID es
// el usuario autenticado ("" si no hay); se registra como vendedor y, si hubo
// descuento, como quien lo autorizó. Ante un conflicto de voucher la
// transacción completa se reintenta con una secuencia fresca.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	discountPct, err := validateRequest(&in)
	if err != nil {
		return nil, err
	}

	var resp *dto.SaleResponse
	for attempt := 0; ; attempt++ {
		resp, err = uc.createOnce(ctx, userID, in, discountPct)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt+1 >= voucherRetries {
			return nil, err
		}
	}
}

func validateRequest(in *dto.CreateSaleRequest) (decimal.Decimal, error) {
	if len(in.Items) == 0 {
		return decimal.Zero, fmt.Errorf("%w: la venta necesita al menos una línea", domain.ErrInvalidInput)
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return decimal.Zero, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.PaymentMethod)
	}
	discountPct := decimal.Zero
	if in.DiscountPct != nil {
		discountPct = *in.DiscountPct
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	for i, item := range in.Items {
		if item.MedicineID == "" {
			return decimal.Zero, fmt.Errorf("%w: línea %d sin medicamento", domain.ErrInvalidInput, i)
		}
		if item.Quantity < 1 {
			return decimal.Zero, fmt.Errorf("%w: línea %d con cantidad %d", domain.ErrInvalidInput, i, item.Quantity)
		}
		if item.SaleType == "" {
			in.Items[i].SaleType = entity.SaleTypeUnit
		} else if !entity.ValidSaleType(item.SaleType) {
			return decimal.Zero, fmt.Errorf("%w: línea %d con tipo de venta %q", domain.ErrInvalidInput, i, item.SaleType)
		}
		if item.Price != nil && item.Price.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i)
		}
	}
	return discountPct, nil
}

// createOnce ejecuta un intento completo de la transacción de venta.
func (uc *CreateSaleUseCase) createOnce(ctx context.Context, userID string, in dto.CreateSaleRequest, discountPct decimal.Decimal) (*dto.SaleResponse, error) {
	now := uc.now()

	sale := &entity.Sale{
		ID:            uuid.New().String(),
		SoldBy:        userID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		TINNumber:     in.TINNumber,
		SaleDate:      now,
		PaymentMethod: in.PaymentMethod,
		DiscountPct:   discountPct,
	}

	// Orden determinista de bloqueo: índices de línea ordenados por id de
	// medicamento, para que dos ventas concurrentes que comparten dos
	// medicamentos no se bloqueen mutuamente en orden AB/BA.
	lockOrder := make([]int, len(in.Items))
	for i := range lockOrder {
		lockOrder[i] = i
	}
	sort.SliceStable(lockOrder, func(a, b int) bool {
		return in.Items[lockOrder[a]].MedicineID < in.Items[lockOrder[b]].MedicineID
	})

	snapshots := make([]*entity.Medicine, len(in.Items))

	var resp *dto.SaleResponse
	err := uc.txRunner.Run(ctx, func(medRepo repository.MedicineRepository, saleRepo repository.SaleRepository) error {
		// 1) Bloquear, ajustar y persistir el stock de cada línea. Un fallo
		// en cualquier línea aborta la transacción completa (rollback de
		// todas las mutaciones anteriores).
		for _, idx := range lockOrder {
			item := in.Items[idx]
			med, err := medRepo.GetByIDForUpdate(item.MedicineID)
			if err != nil {
				return err
			}
			if med == nil {
				return fmt.Errorf("%w: medicamento %s (línea %d)", domain.ErrNotFound, item.MedicineID, idx)
			}
			counters, err := stock.Adjust(
				stock.Counters{Cartons: med.StockCarton, Units: med.StockInUnit},
				med.UnitsPerCarton, item.Quantity, item.SaleType,
			)
			if err != nil {
				return fmt.Errorf("%s: %w", med.BrandName, err)
			}
			med.ApplyStock(counters.Cartons, counters.Units)
			if err := medRepo.UpdateStock(med.ID, counters.Cartons, counters.Units); err != nil {
				return err
			}
			snapshots[idx] = med
		}

		// 2) Totales: precio congelado por línea (override del caller o
		// precio vigente del medicamento) en el orden de entrada.
		items := make([]*entity.SaleItem, len(in.Items))
		basePrice := decimal.Zero
		for idx, item := range in.Items {
			price := snapshots[idx].Price
			if item.Price != nil {
				price = *item.Price
			}
			items[idx] = &entity.SaleItem{
				ID:         uuid.New().String(),
				SaleID:     sale.ID,
				MedicineID: item.MedicineID,
				Quantity:   item.Quantity,
				Price:      price,
				SaleType:   item.SaleType,
			}
			basePrice = basePrice.Add(items[idx].Total())
		}
		sale.BasePrice = basePrice.Round(2)
		sale.DiscountedAmount = basePrice.Mul(discountPct).Div(decimal.NewFromInt(100)).Round(2)
		sale.TotalAmount = basePrice.Sub(sale.DiscountedAmount).Round(2)
		if discountPct.IsPositive() && userID != "" {
			sale.DiscountedBy = userID
		}

		// 3) Voucher secuencial del día, leído dentro de la misma
		// transacción. El índice único es el respaldo: una violación se
		// mapea a ErrConflict y el caller reintenta.
		last, err := saleRepo.LastVoucherNumber(voucher.Prefix(now))
		if err != nil {
			return err
		}
		sale.VoucherNumber = voucher.Format(now, voucher.NextSequence(last))

		// 4) Persistir cabecera y líneas en orden de entrada.
		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		for _, it := range items {
			if err := saleRepo.CreateItem(it); err != nil {
				return err
			}
		}

		resp = toSaleResponse(sale, items, snapshots)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem, meds []*entity.Medicine) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:               sale.ID,
		VoucherNumber:    sale.VoucherNumber,
		SoldBy:           sale.SoldBy,
		CustomerName:     sale.CustomerName,
		CustomerPhone:    sale.CustomerPhone,
		TINNumber:        sale.TINNumber,
		SaleDate:         sale.SaleDate.Format(time.RFC3339),
		PaymentMethod:    sale.PaymentMethod,
		DiscountPct:      sale.DiscountPct,
		BasePrice:        sale.BasePrice,
		DiscountedAmount: sale.DiscountedAmount,
		TotalAmount:      sale.TotalAmount,
		DiscountedBy:     sale.DiscountedBy,
		Items:            make([]dto.SaleItemResponse, 0, len(items)),
	}
	for i, it := range items {
		line := dto.SaleItemResponse{
			ID:         it.ID,
			MedicineID: it.MedicineID,
			Quantity:   it.Quantity,
			SaleType:   it.SaleType,
			Price:      it.Price,
			TotalPrice: it.Total(),
		}
		if meds != nil && meds[i] != nil {
			line.MedicineName = meds[i].BrandName
			line.BatchNo = meds[i].BatchNo
			line.ExpireDate = meds[i].ExpireDate.Format("2006-01-02")
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
