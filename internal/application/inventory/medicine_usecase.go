package inventory

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

const dateLayout = "2006-01-02"

// defaultExpiryReminderDays es el horizonte de "pronto a vencer" cuando la
// configuración no existe todavía.
const defaultExpiryReminderDays = 30

// MedicineUseCase casos de uso CRUD y de consulta sobre el libro mayor de
// medicamentos. Los contadores de stock solo se modifican aquí por edición
// directa del encargado; las ventas los descuentan por su propio camino
// transaccional.
type MedicineUseCase struct {
	repo        repository.MedicineRepository
	deptRepo    repository.DepartmentRepository
	settingRepo repository.SettingRepository
	exporter    MedicineExporter
	now         func() time.Time
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(
	repo repository.MedicineRepository,
	deptRepo repository.DepartmentRepository,
	settingRepo repository.SettingRepository,
	exporter MedicineExporter,
) *MedicineUseCase {
	return &MedicineUseCase{
		repo:        repo,
		deptRepo:    deptRepo,
		settingRepo: settingRepo,
		exporter:    exporter,
		now:         time.Now,
	}
}

// Create da de alta un lote de medicamento. El número de lote (batch_no) es
// único: un duplicado devuelve domain.ErrDuplicate.
func (uc *MedicineUseCase) Create(userID string, in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	med, err := uc.buildMedicine(userID, in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(med); err != nil {
		return nil, err
	}
	return uc.toResponse(med), nil
}

// BulkCreate da de alta varios lotes en una sola llamada. Se validan todos
// antes de persistir; un error de persistencia aborta en la primera falla e
// identifica la posición ofensora.
func (uc *MedicineUseCase) BulkCreate(userID string, in []dto.CreateMedicineRequest) ([]dto.MedicineResponse, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la lista de medicamentos está vacía", domain.ErrInvalidInput)
	}
	meds := make([]*entity.Medicine, len(in))
	for i, req := range in {
		med, err := uc.buildMedicine(userID, req)
		if err != nil {
			return nil, fmt.Errorf("posición %d: %w", i, err)
		}
		meds[i] = med
	}
	out := make([]dto.MedicineResponse, 0, len(meds))
	for i, med := range meds {
		if err := uc.repo.Create(med); err != nil {
			return nil, fmt.Errorf("posición %d (%s): %w", i, med.BatchNo, err)
		}
		out = append(out, *uc.toResponse(med))
	}
	return out, nil
}

// GetByID obtiene un lote por ID.
func (uc *MedicineUseCase) GetByID(id string) (*dto.MedicineResponse, error) {
	med, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, id)
	}
	return uc.toResponse(med), nil
}

// Update aplica una edición parcial sobre un lote.
func (uc *MedicineUseCase) Update(id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	med, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if med == nil {
		return nil, fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, id)
	}
	if err := applyUpdate(med, in); err != nil {
		return nil, err
	}
	med.UpdatedAt = uc.now()
	if err := uc.repo.Update(med); err != nil {
		return nil, err
	}
	return uc.toResponse(med), nil
}

// BulkUpdate aplica ediciones parciales sobre varios lotes. Aborta en la
// primera falla identificando el lote ofensor; las ediciones previas quedan
// aplicadas, la operación no es atómica.
func (uc *MedicineUseCase) BulkUpdate(items []dto.BulkUpdateItem) ([]dto.MedicineResponse, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la lista de actualizaciones está vacía", domain.ErrInvalidInput)
	}
	out := make([]dto.MedicineResponse, 0, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("%w: posición %d sin id", domain.ErrInvalidInput, i)
		}
		resp, err := uc.Update(item.ID, item.Fields)
		if err != nil {
			return nil, fmt.Errorf("posición %d: %w", i, err)
		}
		out = append(out, *resp)
	}
	return out, nil
}

// Delete elimina un lote. Si tiene líneas de venta asociadas la FK lo impide
// y se devuelve domain.ErrConflict.
func (uc *MedicineUseCase) Delete(id string) error {
	med, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if med == nil {
		return fmt.Errorf("%w: medicamento %s", domain.ErrNotFound, id)
	}
	return uc.repo.Delete(id)
}

// List lista el catálogo con filtros y paginación.
func (uc *MedicineUseCase) List(in dto.MedicineFilterRequest) (*dto.MedicineListResponse, error) {
	in.DefaultPage()
	filter := repository.MedicineFilter{
		DepartmentID: in.DepartmentID,
		Unit:         in.Unit,
		BrandName:    in.BrandName,
		ItemName:     in.ItemName,
		BatchNo:      in.BatchNo,
		Search:       in.Search,
		OrderBy:      in.OrderBy,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	switch filter.OrderBy {
	case "", "expire_date", "price", "brand_name":
	default:
		return nil, fmt.Errorf("%w: orden %q no soportado", domain.ErrInvalidInput, filter.OrderBy)
	}
	meds, total, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MedicineResponse, 0, len(meds))
	for _, m := range meds {
		data = append(data, *uc.toResponse(m))
	}
	return &dto.MedicineListResponse{
		Data: data,
		Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Alerts devuelve los lotes vencidos o con stock bajo el umbral, con los
// conteos que consume la campana de notificaciones del frontend.
func (uc *MedicineUseCase) Alerts() (*dto.AlertsResponse, error) {
	today := uc.now()
	meds, err := uc.repo.ListAlerts(today.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	resp := &dto.AlertsResponse{Data: make([]dto.MedicineResponse, 0, len(meds))}
	for _, m := range meds {
		if m.IsExpired(today) {
			resp.ExpiredCount++
		}
		if m.TotalUnits() <= m.LowStockThreshold {
			resp.LowStockCount++
		}
		resp.Data = append(resp.Data, *uc.toResponse(m))
	}
	resp.TotalAlerts = len(meds)
	resp.Alert = resp.TotalAlerts > 0
	if resp.Alert {
		resp.Message = fmt.Sprintf("%d medicamentos requieren atención", resp.TotalAlerts)
	} else {
		resp.Message = "Sin alertas de inventario"
	}
	return resp, nil
}

// Analytics devuelve el resumen del catálogo: conteos y valor del inventario
// a precio de venta.
func (uc *MedicineUseCase) Analytics() (*dto.InventoryAnalyticsResponse, error) {
	meds, total, err := uc.repo.List(repository.MedicineFilter{})
	if err != nil {
		return nil, err
	}
	today := uc.now()
	summary := dto.InventorySummary{TotalMedicines: total}
	for _, m := range meds {
		if m.IsExpired(today) {
			summary.ExpiredMedicines++
		}
		if m.TotalUnits() <= m.LowStockThreshold {
			summary.LowStockMedicines++
		}
		summary.TotalInventoryValue = summary.TotalInventoryValue.Add(
			m.Price.Mul(decimal.NewFromInt(int64(m.TotalUnits()))))
	}
	return &dto.InventoryAnalyticsResponse{Summary: summary}, nil
}

// ExportExcel genera el catálogo completo como archivo Excel.
func (uc *MedicineUseCase) ExportExcel() ([]byte, error) {
	meds, _, err := uc.repo.List(repository.MedicineFilter{OrderBy: "brand_name"})
	if err != nil {
		return nil, err
	}
	if len(meds) == 0 {
		return nil, fmt.Errorf("%w: no hay medicamentos para exportar", domain.ErrNotFound)
	}
	return uc.exporter.ExportMedicines(meds)
}

// buildMedicine valida el request de alta y construye la entidad. El umbral
// de stock bajo hereda el de la configuración global si no se envía.
func (uc *MedicineUseCase) buildMedicine(userID string, in dto.CreateMedicineRequest) (*entity.Medicine, error) {
	if in.BrandName == "" {
		return nil, fmt.Errorf("%w: brand_name es obligatorio", domain.ErrInvalidInput)
	}
	if in.BatchNo == "" {
		return nil, fmt.Errorf("%w: batch_no es obligatorio", domain.ErrInvalidInput)
	}
	expire, err := time.Parse(dateLayout, in.ExpireDate)
	if err != nil {
		return nil, fmt.Errorf("%w: expire_date %q inválida", domain.ErrInvalidInput, in.ExpireDate)
	}
	var manufacture *time.Time
	if in.ManufactureDate != "" {
		t, err := time.Parse(dateLayout, in.ManufactureDate)
		if err != nil {
			return nil, fmt.Errorf("%w: manufacture_date %q inválida", domain.ErrInvalidInput, in.ManufactureDate)
		}
		manufacture = &t
	}
	if in.BuyingPrice.IsNegative() || in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: los precios no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.StockCarton < 0 || in.StockInUnit < 0 || in.UnitsPerCarton < 0 {
		return nil, fmt.Errorf("%w: los contadores de stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.UnitsPerCarton == 0 {
		in.UnitsPerCarton = 1
	}
	if in.DepartmentID != "" {
		dept, err := uc.deptRepo.GetByID(in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept == nil {
			return nil, fmt.Errorf("%w: sección %s", domain.ErrNotFound, in.DepartmentID)
		}
	}
	threshold := in.LowStockThreshold
	if threshold <= 0 {
		threshold = uc.defaultThreshold()
	}
	now := uc.now()
	return &entity.Medicine{
		ID:                uuid.New().String(),
		BrandName:         in.BrandName,
		ItemName:          in.ItemName,
		BatchNo:           in.BatchNo,
		ManufactureDate:   manufacture,
		ExpireDate:        expire,
		BuyingPrice:       in.BuyingPrice,
		Price:             in.Price,
		StockCarton:       in.StockCarton,
		UnitsPerCarton:    in.UnitsPerCarton,
		StockInUnit:       in.StockInUnit,
		LowStockThreshold: threshold,
		Unit:              in.Unit,
		CompanyName:       in.CompanyName,
		FSNO:              in.FSNO,
		DepartmentID:      in.DepartmentID,
		CreatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (uc *MedicineUseCase) defaultThreshold() int {
	setting, err := uc.settingRepo.Get()
	if err != nil || setting == nil {
		return 10
	}
	return setting.LowStockThreshold
}

func applyUpdate(med *entity.Medicine, in dto.UpdateMedicineRequest) error {
	if in.BrandName != nil {
		med.BrandName = *in.BrandName
	}
	if in.ItemName != nil {
		med.ItemName = *in.ItemName
	}
	if in.BatchNo != nil {
		if *in.BatchNo == "" {
			return fmt.Errorf("%w: batch_no no puede quedar vacío", domain.ErrInvalidInput)
		}
		med.BatchNo = *in.BatchNo
	}
	if in.ManufactureDate != nil {
		if *in.ManufactureDate == "" {
			med.ManufactureDate = nil
		} else {
			t, err := time.Parse(dateLayout, *in.ManufactureDate)
			if err != nil {
				return fmt.Errorf("%w: manufacture_date %q inválida", domain.ErrInvalidInput, *in.ManufactureDate)
			}
			med.ManufactureDate = &t
		}
	}
	if in.ExpireDate != nil {
		t, err := time.Parse(dateLayout, *in.ExpireDate)
		if err != nil {
			return fmt.Errorf("%w: expire_date %q inválida", domain.ErrInvalidInput, *in.ExpireDate)
		}
		med.ExpireDate = t
	}
	if in.BuyingPrice != nil {
		if in.BuyingPrice.IsNegative() {
			return fmt.Errorf("%w: buying_price negativo", domain.ErrInvalidInput)
		}
		med.BuyingPrice = *in.BuyingPrice
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return fmt.Errorf("%w: price negativo", domain.ErrInvalidInput)
		}
		med.Price = *in.Price
	}
	if in.StockCarton != nil {
		if *in.StockCarton < 0 {
			return fmt.Errorf("%w: stock_carton negativo", domain.ErrInvalidInput)
		}
		med.StockCarton = *in.StockCarton
	}
	if in.UnitsPerCarton != nil {
		if *in.UnitsPerCarton < 1 {
			return fmt.Errorf("%w: units_per_carton debe ser al menos 1", domain.ErrInvalidInput)
		}
		med.UnitsPerCarton = *in.UnitsPerCarton
	}
	if in.StockInUnit != nil {
		if *in.StockInUnit < 0 {
			return fmt.Errorf("%w: stock_in_unit negativo", domain.ErrInvalidInput)
		}
		med.StockInUnit = *in.StockInUnit
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return fmt.Errorf("%w: low_stock_threshold negativo", domain.ErrInvalidInput)
		}
		med.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Unit != nil {
		med.Unit = *in.Unit
	}
	if in.CompanyName != nil {
		med.CompanyName = *in.CompanyName
	}
	if in.FSNO != nil {
		med.FSNO = *in.FSNO
	}
	if in.DepartmentID != nil {
		med.DepartmentID = *in.DepartmentID
	}
	return nil
}

func (uc *MedicineUseCase) toResponse(m *entity.Medicine) *dto.MedicineResponse {
	today := uc.now()
	resp := &dto.MedicineResponse{
		ID:                m.ID,
		BrandName:         m.BrandName,
		ItemName:          m.ItemName,
		BatchNo:           m.BatchNo,
		ExpireDate:        m.ExpireDate.Format(dateLayout),
		BuyingPrice:       m.BuyingPrice,
		Price:             m.Price,
		ProfitPerItem:     m.ProfitPerItem(),
		TotalProfit:       m.TotalProfit(),
		StockCarton:       m.StockCarton,
		UnitsPerCarton:    m.UnitsPerCarton,
		StockInUnit:       m.StockInUnit,
		TotalStockUnits:   m.TotalUnits(),
		LowStockThreshold: m.LowStockThreshold,
		Unit:              m.Unit,
		CompanyName:       m.CompanyName,
		FSNO:              m.FSNO,
		IsOutOfStock:      m.IsOutOfStock(),
		IsExpired:         m.IsExpired(today),
		IsNearlyExpired:   m.IsNearlyExpired(today, uc.reminderDays()),
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         m.UpdatedAt.Format(time.RFC3339),
	}
	if m.ManufactureDate != nil {
		resp.ManufactureDate = m.ManufactureDate.Format(dateLayout)
	}
	if m.DepartmentID != "" {
		if dept, err := uc.deptRepo.GetByID(m.DepartmentID); err == nil && dept != nil {
			resp.Department = &dto.DepartmentResponse{ID: dept.ID, Code: dept.Code, Name: dept.Name}
		}
	}
	return resp
}

func (uc *MedicineUseCase) reminderDays() int {
	setting, err := uc.settingRepo.Get()
	if err != nil || setting == nil {
		return defaultExpiryReminderDays
	}
	return setting.ExpiryReminderDays
}
