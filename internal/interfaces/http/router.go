package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"

	appanalytics "github.com/tu-usuario/farmacia-pos/internal/application/analytics"
	"github.com/tu-usuario/farmacia-pos/internal/application/auth"
	"github.com/tu-usuario/farmacia-pos/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pos/internal/application/sales"
	"github.com/tu-usuario/farmacia-pos/internal/application/usecase"
)

// dashboardCacheTTL TTL de la caché de respuestas del dashboard.
const dashboardCacheTTL = 5 * time.Minute

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	MedicineUC   *inventory.MedicineUseCase
	CreateSaleUC *sales.CreateSaleUseCase
	SaleQueryUC  *sales.SaleQueryUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	DepartmentUC *usecase.DepartmentUseCase
	SettingUC    *usecase.SettingUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Medicines (protegido). Las rutas fijas van antes de /:id.
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.MedicineUC)
	medicines.Post("/", medicineHandler.Create)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/alerts", cache.New(cache.Config{Expiration: dashboardCacheTTL}), medicineHandler.Alerts)
	medicines.Get("/analytics", medicineHandler.Analytics)
	medicines.Get("/export-excel", medicineHandler.ExportExcel)
	medicines.Put("/bulk-update", medicineHandler.BulkUpdate)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Put("/:id", medicineHandler.Update)
	medicines.Delete("/:id", RequireRole("admin", "store_manager"), medicineHandler.Delete)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSaleUC, deps.SaleQueryUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/sold-medicines", saleHandler.SoldItems)
	salesGroup.Get("/export-excel", saleHandler.ExportExcel)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/voucher-pdf", saleHandler.VoucherPDF)

	// Dashboard (protegido, respuestas cacheadas 5 minutos)
	dashboard := protected.Group("/dashboard", cache.New(cache.Config{
		Expiration: dashboardCacheTTL,
	}))
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/overview", dashboardHandler.Overview)
	dashboard.Get("/analytics", dashboardHandler.Analytics)
	dashboard.Get("/profit-summary", dashboardHandler.ProfitSummary)

	// Departments (protegido)
	departments := protected.Group("/departments")
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments.Post("/", departmentHandler.Create)
	departments.Get("/", departmentHandler.List)
	departments.Get("/:id", departmentHandler.GetByID)
	departments.Put("/:id", departmentHandler.Update)
	departments.Delete("/:id", RequireRole("admin", "store_manager"), departmentHandler.Delete)

	// Settings (protegido, registro único)
	settings := protected.Group("/settings")
	settingHandler := NewSettingHandler(deps.SettingUC)
	settings.Get("/", settingHandler.Get)
	settings.Put("/", RequireRole("admin", "store_manager"), settingHandler.Update)
	settings.Delete("/", settingHandler.Delete)
}
