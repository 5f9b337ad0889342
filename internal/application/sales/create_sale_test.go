package sales

import (
	"context"
	"fmt"
	"strings"
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

// ── Fakes en memoria ──────────────────────────────────────────────────────────
// Emulan el comportamiento transaccional del adaptador PostgreSQL: las
// mutaciones dentro de Run se descartan si fn retorna error (rollback) y el
// índice único de voucher_number se emula en Create.

type memStore struct {
	meds  map[string]*entity.Medicine
	sales []*entity.Sale
	items []*entity.SaleItem

	lockLog []string // ids en orden de GetByIDForUpdate
	// lastVoucherHook permite simular una lectura desactualizada de la
	// secuencia (carrera de voucher). Recibe el valor real y devuelve el que
	// verá el caso de uso.
	lastVoucherHook func(actual string) string
}

func newMemStore(meds ...*entity.Medicine) *memStore {
	s := &memStore{meds: make(map[string]*entity.Medicine)}
	for _, m := range meds {
		cp := *m
		s.meds[m.ID] = &cp
	}
	return s
}

func (s *memStore) clone() *memStore {
	cp := &memStore{
		meds:            make(map[string]*entity.Medicine, len(s.meds)),
		sales:           append([]*entity.Sale(nil), s.sales...),
		items:           append([]*entity.SaleItem(nil), s.items...),
		lockLog:         s.lockLog,
		lastVoucherHook: s.lastVoucherHook,
	}
	for id, m := range s.meds {
		mc := *m
		cp.meds[id] = &mc
	}
	return cp
}

type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.MedicineRepository, repository.SaleRepository) error) error {
	backup := r.store.clone()
	if err := fn(&fakeMedRepo{r.store}, &fakeSaleRepo{r.store}); err != nil {
		lockLog := r.store.lockLog // el log de locks sobrevive al rollback
		*r.store = *backup
		r.store.lockLog = lockLog
		return err
	}
	return nil
}

type fakeMedRepo struct{ s *memStore }

func (r *fakeMedRepo) GetByID(id string) (*entity.Medicine, error) {
	m, ok := r.s.meds[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMedRepo) GetByIDForUpdate(id string) (*entity.Medicine, error) {
	r.s.lockLog = append(r.s.lockLog, id)
	return r.GetByID(id)
}

func (r *fakeMedRepo) UpdateStock(id string, cartons, units int) error {
	m, ok := r.s.meds[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.StockCarton, m.StockInUnit = cartons, units
	return nil
}

func (r *fakeMedRepo) Create(*entity.Medicine) error { return nil }
func (r *fakeMedRepo) Update(*entity.Medicine) error { return nil }
func (r *fakeMedRepo) Delete(string) error           { return nil }
func (r *fakeMedRepo) List(repository.MedicineFilter) ([]*entity.Medicine, int, error) {
	return nil, 0, nil
}
func (r *fakeMedRepo) ListAlerts(string) ([]*entity.Medicine, error) { return nil, nil }

type fakeSaleRepo struct{ s *memStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	for _, existing := range r.s.sales {
		if existing.VoucherNumber == sale.VoucherNumber {
			return fmt.Errorf("%w: voucher %s duplicado", domain.ErrConflict, sale.VoucherNumber)
		}
	}
	cp := *sale
	r.s.sales = append(r.s.sales, &cp)
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	cp := *item
	r.s.items = append(r.s.items, &cp)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	for _, s := range r.s.sales {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	var out []*entity.SaleItem
	for _, it := range r.s.items {
		if it.SaleID == saleID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) LastVoucherNumber(prefix string) (string, error) {
	actual := ""
	for _, s := range r.s.sales {
		if strings.HasPrefix(s.VoucherNumber, prefix) && s.VoucherNumber > actual {
			actual = s.VoucherNumber
		}
	}
	if r.s.lastVoucherHook != nil {
		return r.s.lastVoucherHook(actual), nil
	}
	return actual, nil
}

func (r *fakeSaleRepo) List(repository.SaleFilter) ([]*entity.Sale, int, error) { return nil, 0, nil }
func (r *fakeSaleRepo) ListSoldItems(repository.SaleFilter) ([]repository.SoldItemRow, int, error) {
	return nil, 0, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

var saleDay = time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)

func med(id, brand string, cartons, upc, units int, price string) *entity.Medicine {
	return &entity.Medicine{
		ID:             id,
		BrandName:      brand,
		BatchNo:        "B-" + id,
		ExpireDate:     saleDay.AddDate(1, 0, 0),
		BuyingPrice:    decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		Price:          decimal.RequireFromString(price),
		StockCarton:    cartons,
		UnitsPerCarton: upc,
		StockInUnit:    units,
	}
}

func newUseCase(store *memStore) *CreateSaleUseCase {
	uc := NewCreateSaleUseCase(&fakeTxRunner{store})
	uc.now = func() time.Time { return saleDay }
	return uc
}

func itemReq(medID string, qty int, saleType string) dto.SaleItemRequest {
	return dto.SaleItemRequest{MedicineID: medID, Quantity: qty, SaleType: saleType}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCreateSale_VentaSimple(t *testing.T) {
	store := newMemStore(med("m1", "Paracetamol", 2, 10, 3, "5.00"))
	uc := newUseCase(store)

	resp, err := uc.CreateSale(context.Background(), "user-1", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 5, entity.SaleTypeUnit)},
	})
	require.NoError(t, err)

	assert.Equal(t, "SLS-20250610-0001", resp.VoucherNumber)
	assert.Equal(t, "cash", resp.PaymentMethod, "método de pago por defecto")
	assert.True(t, resp.BasePrice.Equal(decimal.RequireFromString("25.00")))
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, "user-1", resp.SoldBy)
	assert.Empty(t, resp.DiscountedBy, "sin descuento no hay discounted_by")

	// Escenario de referencia: 3 sueltas < 5 → abre 1 cartón; quedan 1 y 8.
	m := store.meds["m1"]
	assert.Equal(t, 1, m.StockCarton)
	assert.Equal(t, 8, m.StockInUnit)
	assert.Equal(t, 18, m.TotalUnits(), "conservación: 23 - 5")
	assert.Len(t, store.items, 1)
}

func TestCreateSale_DescuentoYRedondeo(t *testing.T) {
	store := newMemStore(med("m1", "Amoxicilina", 10, 10, 0, "33.33"))
	uc := newUseCase(store)

	d := decimal.RequireFromString("7.5")
	resp, err := uc.CreateSale(context.Background(), "user-9", dto.CreateSaleRequest{
		DiscountPct: &d,
		Items:       []dto.SaleItemRequest{itemReq("m1", 3, entity.SaleTypeUnit)},
	})
	require.NoError(t, err)

	// base = 3 × 33.33 = 99.99; descuento = 7.49925 → 7.50 (medio centavo
	// redondea hacia arriba); total = 92.49.
	assert.True(t, resp.BasePrice.Equal(decimal.RequireFromString("99.99")), "base %s", resp.BasePrice)
	assert.True(t, resp.DiscountedAmount.Equal(decimal.RequireFromString("7.50")), "descuento %s", resp.DiscountedAmount)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("92.49")), "total %s", resp.TotalAmount)
	assert.Equal(t, "user-9", resp.DiscountedBy, "descuento > 0 con usuario registra discounted_by")
}

func TestCreateSale_PrecioCongelado(t *testing.T) {
	store := newMemStore(med("m1", "Ibuprofeno", 5, 10, 0, "8.00"))
	uc := newUseCase(store)

	override := decimal.RequireFromString("6.50")
	resp, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			{MedicineID: "m1", Quantity: 2, SaleType: entity.SaleTypeUnit, Price: &override},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Items[0].Price.Equal(override), "el override del caller manda")

	// Cambiar el precio del medicamento después no altera la línea guardada.
	store.meds["m1"].Price = decimal.RequireFromString("99.00")
	assert.True(t, store.items[0].Price.Equal(override),
		"el precio de la línea es un snapshot, nunca se recalcula")
}

func TestCreateSale_VentaPorCartonConClamp(t *testing.T) {
	store := newMemStore(med("m1", "Jarabe", 2, 10, 3, "12.00"))
	uc := newUseCase(store)

	resp, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeCarton)},
	})
	require.NoError(t, err)
	assert.True(t, resp.BasePrice.Equal(decimal.RequireFromString("12.00")),
		"el precio de línea es por unidad de venta: 1 cartón × precio")

	m := store.meds["m1"]
	assert.Equal(t, 1, m.StockCarton)
	assert.Equal(t, 0, m.StockInUnit, "clamp: las 3 sueltas se pierden")
	assert.Equal(t, 10, m.TotalUnits())
}

func TestCreateSale_AtomicidadRollbackCompleto(t *testing.T) {
	store := newMemStore(
		med("m1", "Paracetamol", 2, 10, 3, "5.00"),
		med("m2", "Losartán", 0, 10, 1, "7.00"),
	)
	uc := newUseCase(store)

	_, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			itemReq("m1", 5, entity.SaleTypeUnit),
			itemReq("m2", 2, entity.SaleTypeUnit), // solo hay 1 disponible
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Losartán", "el error nombra el medicamento ofensor")

	// La mutación de la primera línea se revirtió por completo.
	assert.Equal(t, 2, store.meds["m1"].StockCarton)
	assert.Equal(t, 3, store.meds["m1"].StockInUnit)
	assert.Equal(t, 1, store.meds["m2"].StockInUnit)
	assert.Empty(t, store.sales, "no persiste ninguna venta parcial")
	assert.Empty(t, store.items)
}

func TestCreateSale_MedicamentoInexistenteAbortaTodo(t *testing.T) {
	store := newMemStore(med("m1", "Paracetamol", 2, 10, 3, "5.00"))
	uc := newUseCase(store)

	_, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			itemReq("m1", 1, entity.SaleTypeUnit),
			itemReq("no-existe", 1, entity.SaleTypeUnit),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 3, store.meds["m1"].StockInUnit, "rollback de la línea previa")
	assert.Empty(t, store.sales)
}

func TestCreateSale_Validaciones(t *testing.T) {
	uc := newUseCase(newMemStore(med("m1", "X", 1, 10, 0, "1.00")))
	ctx := context.Background()

	_, err := uc.CreateSale(ctx, "", dto.CreateSaleRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = uc.CreateSale(ctx, "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 0, entity.SaleTypeUnit)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	bad := decimal.RequireFromString("101")
	_, err = uc.CreateSale(ctx, "", dto.CreateSaleRequest{
		DiscountPct: &bad,
		Items:       []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "descuento fuera de rango")

	_, err = uc.CreateSale(ctx, "", dto.CreateSaleRequest{
		PaymentMethod: "cheque",
		Items:         []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "método de pago desconocido")

	_, err = uc.CreateSale(ctx, "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, "pallet")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo de venta desconocido")
}

func TestCreateSale_SecuenciaDeVouchers(t *testing.T) {
	store := newMemStore(med("m1", "X", 100, 10, 0, "1.00"))
	uc := newUseCase(store)

	for i := 1; i <= 3; i++ {
		resp, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
		})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("SLS-20250610-%04d", i), resp.VoucherNumber)
	}
}

// Carrera de voucher: la primera lectura de la secuencia llega
// desactualizada, el índice único rechaza el duplicado y el caso de uso
// reintenta la transacción completa con una secuencia fresca.
func TestCreateSale_ReintentoPorConflictoDeVoucher(t *testing.T) {
	store := newMemStore(med("m1", "X", 100, 10, 0, "1.00"))
	uc := newUseCase(store)

	// Venta previa del día: el voucher 0001 ya existe.
	_, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	require.NoError(t, err)

	stale := 1
	store.lastVoucherHook = func(actual string) string {
		if stale > 0 {
			stale--
			return "" // lectura vieja: como si no hubiera ventas hoy
		}
		return actual
	}

	resp, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	require.NoError(t, err, "el reintento debe absorber el conflicto")
	assert.Equal(t, "SLS-20250610-0002", resp.VoucherNumber)
	assert.Len(t, store.sales, 2, "una sola venta nueva pese al reintento")
	assert.Equal(t, 998, store.meds["m1"].TotalUnits(),
		"el stock se descontó una sola vez por venta")
}

func TestCreateSale_ReintentosAgotadosDevuelveConflicto(t *testing.T) {
	store := newMemStore(med("m1", "X", 100, 10, 0, "1.00"))
	uc := newUseCase(store)

	_, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	require.NoError(t, err)

	store.lastVoucherHook = func(string) string { return "" } // siempre viejo

	_, err = uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, store.sales, 1, "ninguna venta nueva tras agotar reintentos")
	assert.Equal(t, 999, store.meds["m1"].TotalUnits(), "stock intacto tras los rollbacks")
}

// Los bloqueos se adquieren en orden ascendente de id de medicamento aunque
// las líneas lleguen en otro orden; las líneas se persisten en orden de
// entrada.
func TestCreateSale_OrdenDeterministaDeBloqueos(t *testing.T) {
	store := newMemStore(
		med("aaa", "Alfa", 5, 10, 0, "1.00"),
		med("zzz", "Zeta", 5, 10, 0, "2.00"),
	)
	uc := newUseCase(store)

	resp, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			itemReq("zzz", 1, entity.SaleTypeUnit),
			itemReq("aaa", 1, entity.SaleTypeUnit),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"aaa", "zzz"}, store.lockLog, "locks por id ascendente")
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "zzz", resp.Items[0].MedicineID, "respuesta en orden de entrada")
	assert.Equal(t, "aaa", resp.Items[1].MedicineID)
}

// Dos líneas sobre el mismo medicamento: la segunda ve el stock ya
// descontado por la primera.
func TestCreateSale_MismoMedicamentoEnDosLineas(t *testing.T) {
	store := newMemStore(med("m1", "X", 1, 10, 5, "1.00")) // total 15
	uc := newUseCase(store)

	resp, err := uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{
			itemReq("m1", 8, entity.SaleTypeUnit),
			itemReq("m1", 7, entity.SaleTypeUnit),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, store.meds["m1"].TotalUnits(), "15 - 8 - 7 = 0")
	assert.Len(t, resp.Items, 2)

	// Una unidad más debe fallar completo.
	_, err = uc.CreateSale(context.Background(), "", dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{itemReq("m1", 1, entity.SaleTypeUnit)},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}
