package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	appanalytics "github.com/tu-usuario/farmacia-pos/internal/application/analytics"
	"github.com/tu-usuario/farmacia-pos/internal/application/auth"
	"github.com/tu-usuario/farmacia-pos/internal/application/inventory"
	"github.com/tu-usuario/farmacia-pos/internal/application/sales"
	"github.com/tu-usuario/farmacia-pos/internal/application/usecase"
	infraexcel "github.com/tu-usuario/farmacia-pos/internal/infrastructure/excel"
	infrapdf "github.com/tu-usuario/farmacia-pos/internal/infrastructure/pdf"
	"github.com/tu-usuario/farmacia-pos/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/farmacia-pos/internal/interfaces/http"
	"github.com/tu-usuario/farmacia-pos/pkg/config"
	"github.com/tu-usuario/farmacia-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	medicineRepo := postgres.NewMedicineRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	excelExporter := infraexcel.NewExporter()
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	settingUC := usecase.NewSettingUseCase(settingRepo, usecase.SettingDefaults{
		Discount:           cfg.Pharmacy.DefaultDiscount,
		LowStockThreshold:  cfg.Pharmacy.LowStockThreshold,
		ExpiryReminderDays: cfg.Pharmacy.ExpiryReminderDays,
	})
	if err := settingUC.EnsureDefaults(); err != nil {
		log.Fatal().Err(err).Msg("configuración inicial")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	medicineUC := inventory.NewMedicineUseCase(medicineRepo, departmentRepo, settingRepo, excelExporter)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner)
	saleQueryUC := sales.NewSaleQueryUseCase(saleRepo, medicineRepo, excelExporter, pdfGenerator)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, settingRepo)
	departmentUC := usecase.NewDepartmentUseCase(departmentRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farmacia POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		MedicineUC:   medicineUC,
		CreateSaleUC: createSaleUC,
		SaleQueryUC:  saleQueryUC,
		DashboardUC:  dashboardUC,
		DepartmentUC: departmentUC,
		SettingUC:    settingUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
