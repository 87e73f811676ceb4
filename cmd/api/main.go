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

	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/application/usecase"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-pecuario/internal/interfaces/http"
	"github.com/jhoicas/Inventario-pecuario/pkg/config"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	eventRepo := postgres.NewConsumptionEventRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	policies := policiesFromConfig(cfg.Ledger)
	horizon := cfg.Ledger.ExpiryHorizonDays

	engine := inventory.NewStockEngine(txRunner, log.Component("stock_engine"))
	binder := inventory.NewConsumptionBinder(txRunner, engine, eventRepo, policies, log.Component("consumption_binder"))
	productUC := usecase.NewProductUseCase(productRepo, txRunner, engine, horizon)
	ledgerUC := inventory.NewLedgerQueryUseCase(movementRepo)
	alertsUC := inventory.NewAlertsUseCase(productRepo, movementRepo, policies, horizon)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo, movementRepo, policies)
	quarantineUC := inventory.NewQuarantineUseCase(eventRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Inventario Pecuario API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		Engine:        engine,
		Binder:        binder,
		LedgerQuery:   ledgerUC,
		Alerts:        alertsUC,
		Replenishment: replenishmentUC,
		Quarantine:    quarantineUC,
		Logger:        log.Component("http"),
		JWTSecret:     cfg.JWT.Secret,
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

// policiesFromConfig traduce la configuración del libro a la política por categoría.
func policiesFromConfig(c config.LedgerConfig) inventory.Policies {
	toPolicy := func(cc config.CategoryConfig) inventory.CategoryPolicy {
		return inventory.CategoryPolicy{
			Thresholds: domaininv.ForecastThresholds{UrgentDays: cc.UrgentDays, SoonDays: cc.SoonDays},
			WindowDays: cc.WindowDays,
			GatesPlots: cc.GatesPlots,
		}
	}
	return inventory.Policies{
		entity.CategoryMedication:  toPolicy(c.Medication),
		entity.CategoryFeed:        toPolicy(c.Feed),
		entity.CategoryLandProduct: toPolicy(c.LandProduct),
	}
}
