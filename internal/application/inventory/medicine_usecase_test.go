package inventory

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/farmacia-pos/internal/application/dto"
	"github.com/tu-usuario/farmacia-pos/internal/domain"
	"github.com/tu-usuario/farmacia-pos/internal/domain/entity"
	"github.com/tu-usuario/farmacia-pos/internal/domain/repository"
)

var today = time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)

type fakeMedicineRepo struct {
	meds      map[string]*entity.Medicine
	createErr error
}

func newFakeMedicineRepo() *fakeMedicineRepo {
	return &fakeMedicineRepo{meds: make(map[string]*entity.Medicine)}
}

func (r *fakeMedicineRepo) Create(m *entity.Medicine) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.meds {
		if existing.BatchNo == m.BatchNo {
			return fmt.Errorf("%w: batch_no %s", domain.ErrDuplicate, m.BatchNo)
		}
	}
	cp := *m
	r.meds[m.ID] = &cp
	return nil
}

func (r *fakeMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	m, ok := r.meds[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMedicineRepo) GetByIDForUpdate(id string) (*entity.Medicine, error) {
	return r.GetByID(id)
}

func (r *fakeMedicineRepo) Update(m *entity.Medicine) error {
	cp := *m
	r.meds[m.ID] = &cp
	return nil
}

func (r *fakeMedicineRepo) UpdateStock(id string, cartons, units int) error {
	m := r.meds[id]
	m.StockCarton, m.StockInUnit = cartons, units
	return nil
}

func (r *fakeMedicineRepo) Delete(id string) error {
	delete(r.meds, id)
	return nil
}

func (r *fakeMedicineRepo) List(repository.MedicineFilter) ([]*entity.Medicine, int, error) {
	var out []*entity.Medicine
	for _, m := range r.meds {
		cp := *m
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeMedicineRepo) ListAlerts(day string) ([]*entity.Medicine, error) {
	t, _ := time.Parse(dateLayout, day)
	var out []*entity.Medicine
	for _, m := range r.meds {
		if m.IsExpired(t) || m.TotalUnits() <= m.LowStockThreshold {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeDeptRepo struct{ depts map[string]*entity.Department }

func (r *fakeDeptRepo) Create(d *entity.Department) error { return nil }
func (r *fakeDeptRepo) GetByID(id string) (*entity.Department, error) {
	if r.depts == nil {
		return nil, nil
	}
	return r.depts[id], nil
}
func (r *fakeDeptRepo) Update(*entity.Department) error { return nil }
func (r *fakeDeptRepo) Delete(string) error             { return nil }
func (r *fakeDeptRepo) List(repository.DepartmentFilter) ([]*entity.Department, int, error) {
	return nil, 0, nil
}

type fakeSettingRepo struct{ s *entity.Setting }

func (r *fakeSettingRepo) Get() (*entity.Setting, error)  { return r.s, nil }
func (r *fakeSettingRepo) Create(s *entity.Setting) error { r.s = s; return nil }
func (r *fakeSettingRepo) Update(s *entity.Setting) error { r.s = s; return nil }

func newTestUseCase(repo *fakeMedicineRepo, setting *entity.Setting) *MedicineUseCase {
	uc := NewMedicineUseCase(repo, &fakeDeptRepo{}, &fakeSettingRepo{s: setting}, nil)
	uc.now = func() time.Time { return today }
	return uc
}

func validCreateRequest(batch string) dto.CreateMedicineRequest {
	return dto.CreateMedicineRequest{
		BrandName:      "Paracetamol 500mg",
		BatchNo:        batch,
		ExpireDate:     "2026-06-10",
		BuyingPrice:    decimal.RequireFromString("2.50"),
		Price:          decimal.RequireFromString("5.00"),
		StockCarton:    2,
		UnitsPerCarton: 10,
		StockInUnit:    3,
		Unit:           entity.UnitStrip,
	}
}

func TestMedicineCreate_CamposDerivados(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	resp, err := uc.Create("user-1", validCreateRequest("B-001"))
	require.NoError(t, err)

	assert.Equal(t, 23, resp.TotalStockUnits, "2×10 + 3")
	assert.True(t, resp.ProfitPerItem.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, resp.TotalProfit.Equal(decimal.RequireFromString("57.5")), "2.50 × 23")
	assert.False(t, resp.IsOutOfStock)
	assert.False(t, resp.IsExpired)
	assert.Equal(t, 10, resp.LowStockThreshold, "umbral por defecto sin configuración")
}

func TestMedicineCreate_UmbralHeredaConfiguracion(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, &entity.Setting{LowStockThreshold: 25, ExpiryReminderDays: 30})

	resp, err := uc.Create("", validCreateRequest("B-001"))
	require.NoError(t, err)
	assert.Equal(t, 25, resp.LowStockThreshold)

	in := validCreateRequest("B-002")
	in.LowStockThreshold = 5
	resp, err = uc.Create("", in)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.LowStockThreshold, "el valor explícito manda")
}

func TestMedicineCreate_Validaciones(t *testing.T) {
	uc := newTestUseCase(newFakeMedicineRepo(), nil)

	in := validCreateRequest("B-001")
	in.BrandName = ""
	_, err := uc.Create("", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "marca obligatoria")

	in = validCreateRequest("")
	_, err = uc.Create("", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "lote obligatorio")

	in = validCreateRequest("B-001")
	in.ExpireDate = "10/06/2026"
	_, err = uc.Create("", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "formato de fecha")

	in = validCreateRequest("B-001")
	in.StockCarton = -1
	_, err = uc.Create("", in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "stock negativo")

	in = validCreateRequest("B-001")
	in.DepartmentID = "no-existe"
	_, err = uc.Create("", in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sección inexistente")
}

func TestMedicineCreate_LoteDuplicado(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	_, err := uc.Create("", validCreateRequest("B-001"))
	require.NoError(t, err)

	_, err = uc.Create("", validCreateRequest("B-001"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestMedicineBulkCreate_ValidaTodoAntesDePersistir(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	bad := validCreateRequest("B-002")
	bad.ExpireDate = ""
	_, err := uc.BulkCreate("", []dto.CreateMedicineRequest{validCreateRequest("B-001"), bad})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "posición 1")
	assert.Empty(t, repo.meds, "ningún lote persiste si la validación falla")

	out, err := uc.BulkCreate("", []dto.CreateMedicineRequest{
		validCreateRequest("B-001"), validCreateRequest("B-002"),
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, repo.meds, 2)
}

func TestMedicineUpdate_Parcial(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	created, err := uc.Create("", validCreateRequest("B-001"))
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("6.50")
	resp, err := uc.Update(created.ID, dto.UpdateMedicineRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(newPrice))
	assert.Equal(t, "B-001", resp.BatchNo, "los campos no enviados no cambian")
	assert.Equal(t, 23, resp.TotalStockUnits)

	zero := 0
	_, err = uc.Update(created.ID, dto.UpdateMedicineRequest{UnitsPerCarton: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "units_per_carton < 1 rechazado en edición")

	_, err = uc.Update("no-existe", dto.UpdateMedicineRequest{Price: &newPrice})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMedicineBulkUpdate_IdentificaOfensor(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	created, err := uc.Create("", validCreateRequest("B-001"))
	require.NoError(t, err)

	price := decimal.RequireFromString("9.99")
	out, err := uc.BulkUpdate([]dto.BulkUpdateItem{
		{ID: created.ID, Fields: dto.UpdateMedicineRequest{Price: &price}},
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Price.Equal(price))

	_, err = uc.BulkUpdate([]dto.BulkUpdateItem{
		{ID: created.ID, Fields: dto.UpdateMedicineRequest{Price: &price}},
		{ID: "no-existe", Fields: dto.UpdateMedicineRequest{Price: &price}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "posición 1")
}

func TestMedicineAlerts_Clasificacion(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, &entity.Setting{LowStockThreshold: 10, ExpiryReminderDays: 30})

	sano := validCreateRequest("B-OK")
	sano.StockCarton, sano.StockInUnit = 10, 0
	_, err := uc.Create("", sano)
	require.NoError(t, err)

	vencido := validCreateRequest("B-VENCIDO")
	vencido.ExpireDate = "2025-01-01"
	vencido.StockCarton, vencido.StockInUnit = 10, 0
	_, err = uc.Create("", vencido)
	require.NoError(t, err)

	bajo := validCreateRequest("B-BAJO")
	bajo.StockCarton, bajo.StockInUnit = 0, 4
	_, err = uc.Create("", bajo)
	require.NoError(t, err)

	resp, err := uc.Alerts()
	require.NoError(t, err)
	assert.True(t, resp.Alert)
	assert.Equal(t, 1, resp.ExpiredCount)
	assert.Equal(t, 1, resp.LowStockCount)
	assert.Equal(t, 2, resp.TotalAlerts)
	assert.Len(t, resp.Data, 2, "el lote sano no aparece")
}

func TestMedicineAnalytics_Resumen(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	a := validCreateRequest("B-001") // 23 unidades × 5.00
	_, err := uc.Create("", a)
	require.NoError(t, err)

	b := validCreateRequest("B-002")
	b.StockCarton, b.StockInUnit = 0, 2 // bajo stock: 2 ≤ 10
	b.Price = decimal.RequireFromString("3.00")
	_, err = uc.Create("", b)
	require.NoError(t, err)

	resp, err := uc.Analytics()
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Summary.TotalMedicines)
	assert.Equal(t, 0, resp.Summary.ExpiredMedicines)
	assert.Equal(t, 1, resp.Summary.LowStockMedicines)
	assert.True(t, resp.Summary.TotalInventoryValue.Equal(decimal.RequireFromString("121")),
		"23×5.00 + 2×3.00 = 121, obtuve %s", resp.Summary.TotalInventoryValue)
}

func TestMedicineDelete(t *testing.T) {
	repo := newFakeMedicineRepo()
	uc := newTestUseCase(repo, nil)

	created, err := uc.Create("", validCreateRequest("B-001"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(created.ID))
	assert.Empty(t, repo.meds)

	assert.ErrorIs(t, uc.Delete("no-existe"), domain.ErrNotFound)
}
