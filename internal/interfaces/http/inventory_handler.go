package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	domaininv "github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// InventoryHandler movimientos de stock, consultas del libro y alertas de una categoría (protegido).
type InventoryHandler struct {
	engine        *inventory.StockEngine
	ledger        *inventory.LedgerQueryUseCase
	alerts        *inventory.AlertsUseCase
	replenishment *inventory.ReplenishmentUseCase
	log           *logger.Logger
	now           func() time.Time
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	engine *inventory.StockEngine,
	ledger *inventory.LedgerQueryUseCase,
	alerts *inventory.AlertsUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	log *logger.Logger,
	now func() time.Time,
) *InventoryHandler {
	if now == nil {
		now = time.Now
	}
	return &InventoryHandler{
		engine:        engine,
		ledger:        ledger,
		alerts:        alerts,
		replenishment: replenishment,
		log:           log,
		now:           now,
	}
}

// RegisterEntry godoc
// @Summary      Registrar entrada de stock
// @Description  Con unit_price se recalcula el precio promedio ponderado del producto.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        body  body  dto.StockEntryRequest  true  "product_id, quantity y datos de compra"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/{category}/stock/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.StockEntryRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	mov, err := h.engine.CreditFromRequest(c.Context(), GetCategory(c), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// RegisterExit godoc
// @Summary      Registrar salida manual de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        body  body  dto.StockExitRequest  true  "product_id y quantity"
// @Success      201   {object}  dto.MovementResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/{category}/stock/exits [post]
func (h *InventoryHandler) RegisterExit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.StockExitRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	mov, err := h.engine.DebitFromRequest(c.Context(), GetCategory(c), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// RegisterAdjustment godoc
// @Summary      Ajustar saldo (conteo físico)
// @Description  Fija el saldo al valor absoluto new_balance. Solo administradores.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Param        body  body  dto.StockAdjustmentRequest  true  "product_id, new_balance y motivo"
// @Success      201   {object}  dto.MovementResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/{category}/stock/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.StockAdjustmentRequest
	if status, e := bindJSON(c, &in); e != nil {
		return c.Status(status).JSON(e)
	}
	mov, err := h.engine.AdjustFromRequest(c.Context(), GetCategory(c), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category    path   string  true   "medications | feeds | land-products"
// @Param        product_id  query  string  false  "UUID del producto"
// @Param        kind        query  string  false  "ENTRY | EXIT | ADJUSTMENT"
// @Param        animal_id   query  string  false  "Animal"
// @Param        plot_id     query  string  false  "Lote"
// @Param        from        query  string  false  "YYYY-MM-DD"
// @Param        to          query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/{category}/stock/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if status, e := bindQuery(c, &q); e != nil {
		return c.Status(status).JSON(e)
	}
	out, err := h.ledger.ListMovements(c.Context(), GetCategory(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de entradas y salidas por producto
// @Description  Sin fechas se resumen los últimos 30 días.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category  path   string  true   "medications | feeds | land-products"
// @Param        from      query  string  false  "YYYY-MM-DD"
// @Param        to        query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.PeriodSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{category}/stock/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	fromStr, toStr := c.Query("from"), c.Query("to")
	from, err := dto.ParseDate(&fromStr)
	if err != nil {
		return writeError(c, h.log, err)
	}
	to, err := dto.ParseDate(&toStr)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if to == nil {
		today := domaininv.DateOnly(h.now())
		to = &today
	}
	if from == nil {
		start := to.AddDate(0, 0, -30)
		from = &start
	}
	if to.Sub(*from) > 366*24*time.Hour {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	out, err := h.ledger.PeriodSummary(c.Context(), GetCategory(c), *from, *to)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Alerts godoc
// @Summary      Alertas de stock y vencimiento
// @Description  Productos activos con estado OUT_OF_STOCK, EXPIRED, LOW_STOCK o EXPIRING_SOON, del más grave al menos grave.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category      path   string  true   "medications | feeds | land-products"
// @Param        horizon_days  query  int     false  "Horizonte de vencimiento (por defecto el configurado)"
// @Success      200  {array}   dto.StockAlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{category}/stock/alerts [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	horizon := c.QueryInt("horizon_days", 0)
	if horizon < 0 || horizon > 365 {
		return writeError(c, h.log, domain.ErrInvalidInput)
	}
	out, err := h.alerts.StockAlerts(c.Context(), GetCategory(c), h.now(), horizon)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Forecast godoc
// @Summary      Previsión de consumo
// @Description  Días de cobertura según el consumo neto de la ventana de la categoría. Productos sin consumo al final.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Success      200  {array}  dto.ForecastResponse
// @Router       /api/{category}/stock/forecast [get]
func (h *InventoryHandler) Forecast(c *fiber.Ctx) error {
	out, err := h.alerts.Forecast(c.Context(), GetCategory(c), h.now())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Replenishment godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo el umbral con la cantidad sugerida de compra, del más urgente al menos urgente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category  path  string  true  "medications | feeds | land-products"
// @Success      200  {array}  dto.ReplenishmentSuggestionResponse
// @Router       /api/{category}/stock/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.Context(), GetCategory(c), h.now())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AnimalConsumption godoc
// @Summary      Consumo por animal
// @Description  Por producto: cantidad neta consumida (salidas menos reversiones), número de aplicaciones,
// @Description  última aplicación y costo al precio promedio vigente.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        category  path   string  true   "medications | feeds | land-products"
// @Param        id        path   string  true   "Animal"
// @Param        from      query  string  false  "YYYY-MM-DD"
// @Param        to        query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.AnimalConsumptionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{category}/stock/animals/{id}/consumption [get]
func (h *InventoryHandler) AnimalConsumption(c *fiber.Ctx) error {
	var q dto.AnimalConsumptionQuery
	if status, e := bindQuery(c, &q); e != nil {
		return c.Status(status).JSON(e)
	}
	out, err := h.ledger.AnimalConsumption(c.Context(), GetCategory(c), c.Params("id"), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
