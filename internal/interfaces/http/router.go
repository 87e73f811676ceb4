package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/application/usecase"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Engine        *inventory.StockEngine
	Binder        *inventory.ConsumptionBinder
	LedgerQuery   *inventory.LedgerQueryUseCase
	Alerts        *inventory.AlertsUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Quarantine    *inventory.QuarantineUseCase
	Logger        *logger.Logger
	JWTSecret     string
	Now           func() time.Time // nil = time.Now
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	protected := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(RoleAdmin)

	productHandler := NewProductHandler(deps.ProductUC, deps.Logger)
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.LedgerQuery, deps.Alerts, deps.Replenishment, deps.Logger, deps.Now)

	// Catálogo y stock por categoría: /api/medications, /api/feeds, /api/land-products
	for slug, category := range categorySlugs {
		group := protected.Group("/"+slug, WithCategory(category))

		products := group.Group("/products")
		products.Post("/", productHandler.Create)
		products.Get("/", productHandler.List)
		products.Get("/:id", productHandler.GetByID)
		products.Put("/:id", productHandler.Update)
		products.Delete("/:id", adminOnly, productHandler.Deactivate)

		stock := group.Group("/stock")
		stock.Post("/entries", inventoryHandler.RegisterEntry)
		stock.Post("/exits", inventoryHandler.RegisterExit)
		stock.Post("/adjustments", adminOnly, inventoryHandler.RegisterAdjustment)
		stock.Get("/movements", inventoryHandler.ListMovements)
		stock.Get("/summary", inventoryHandler.Summary)
		stock.Get("/alerts", inventoryHandler.Alerts)
		stock.Get("/forecast", inventoryHandler.Forecast)
		stock.Get("/replenishment", inventoryHandler.Replenishment)
		stock.Get("/animals/:id/consumption", inventoryHandler.AnimalConsumption)
	}

	// Eventos de consumo
	consumptions := protected.Group("/consumptions")
	consumptionHandler := NewConsumptionHandler(deps.Binder, deps.Logger)
	consumptions.Post("/", consumptionHandler.Apply)
	consumptions.Get("/:id", consumptionHandler.GetByID)
	consumptions.Put("/:id", consumptionHandler.Edit)
	consumptions.Delete("/:id", consumptionHandler.Cancel)

	// Cuarentenas de lotes
	plots := protected.Group("/plots")
	plotHandler := NewPlotHandler(deps.Quarantine, deps.Logger, deps.Now)
	plots.Get("/releases", plotHandler.Releases)
	plots.Get("/:id/block", plotHandler.Block)
}
