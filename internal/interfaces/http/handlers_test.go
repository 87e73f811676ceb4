package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/application/usecase"
	apphttp "github.com/jhoicas/Inventario-pecuario/internal/interfaces/http"
	"github.com/jhoicas/Inventario-pecuario/internal/testutil"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

var handlerNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func buildLedgerApp(t *testing.T) *fiber.App {
	t.Helper()
	store := testutil.NewStore()
	clock := func() time.Time { return handlerNow }
	store.Clock = clock
	log := logger.Nop()
	policies := inventory.DefaultPolicies()

	engine := inventory.NewStockEngine(store, log).WithClock(clock)
	binder := inventory.NewConsumptionBinder(store, engine, store.Events(), policies, log).WithClock(clock)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(store.Products(), store, engine, 30).WithClock(clock),
		Engine:        engine,
		Binder:        binder,
		LedgerQuery:   inventory.NewLedgerQueryUseCase(store.Movements()),
		Alerts:        inventory.NewAlertsUseCase(store.Products(), store.Movements(), policies, 30),
		Replenishment: inventory.NewReplenishmentUseCase(store.Products(), store.Movements(), policies),
		Quarantine:    inventory.NewQuarantineUseCase(store.Events(), store.Products()),
		Logger:        log,
		JWTSecret:     testJWTSecret,
		Now:           clock,
	})
	return app
}

// call envía la petición con un token del rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, role, method, path string, body any, out any) int {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createProduct(t *testing.T, app *fiber.App, slug string, body map[string]any) dto.ProductResponse {
	t.Helper()
	var out dto.ProductResponse
	status := call(t, app, "admin", http.MethodPost, "/api/"+slug+"/products", body, &out)
	require.Equal(t, http.StatusCreated, status)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProductos_CrearConsultarYCategoria(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "medications", map[string]any{
		"name":              "Ivermectina 1%",
		"unit_measure":      "ml",
		"reorder_threshold": "5",
		"opening_balance":   "50",
	})
	assert.Equal(t, "MEDICATION", p.Category)
	assert.Equal(t, "50", p.CurrentBalance.String())
	assert.Equal(t, "OK", p.Status)

	var got dto.ProductResponse
	assert.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/medications/products/"+p.ID, nil, &got))
	assert.Equal(t, p.ID, got.ID)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, app, "operador", http.MethodGet, "/api/feeds/products/"+p.ID, nil, &e))
	assert.Equal(t, "PRODUCT_NOT_FOUND", e.Code)

	var list dto.ProductListResponse
	assert.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/medications/products?active=true&name=iver", nil, &list))
	assert.Len(t, list.Items, 1)
}

func TestProductos_DuplicadoYValidacion(t *testing.T) {
	app := buildLedgerApp(t)
	createProduct(t, app, "feeds", map[string]any{"name": "Sal Mineralizada", "unit_measure": "kg"})

	var e dto.ErrorResponse
	status := call(t, app, "admin", http.MethodPost, "/api/feeds/products", map[string]any{"name": "sal mineralizada", "unit_measure": "kg"}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_NAME", e.Code)

	e = dto.ErrorResponse{}
	status = call(t, app, "admin", http.MethodPost, "/api/feeds/products", map[string]any{"unit_measure": "kg"}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "es requerido", e.Fields["name"])

	e = dto.ErrorResponse{}
	status = call(t, app, "admin", http.MethodPost, "/api/feeds/products", `{"name":`, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_BODY", e.Code)

	e = dto.ErrorResponse{}
	status = call(t, app, "admin", http.MethodPost, "/api/feeds/products",
		map[string]any{"name": "Melaza", "unit_measure": "l", "reorder_threshold": "10", "max_balance": "5"}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_RANGE", e.Code)
}

func TestProductos_IDQueNoEsUUIDEsNoEncontrado(t *testing.T) {
	app := buildLedgerApp(t)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, call(t, app, "admin", http.MethodGet, "/api/feeds/products/not-a-uuid", nil, &e))
	assert.Equal(t, "PRODUCT_NOT_FOUND", e.Code)
	assert.Equal(t, http.StatusNotFound, call(t, app, "admin", http.MethodPut, "/api/feeds/products/123", map[string]any{"name": "x"}, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, "admin", http.MethodDelete, "/api/feeds/products/123", nil, nil))

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusNotFound, call(t, app, "operador", http.MethodGet, "/api/consumptions/evento-1", nil, &e))
	assert.Equal(t, "EVENT_NOT_FOUND", e.Code)
	assert.Equal(t, http.StatusNotFound, call(t, app, "operador", http.MethodPut, "/api/consumptions/evento-1", map[string]any{"notes": "x"}, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, "operador", http.MethodDelete, "/api/consumptions/evento-1", nil, nil))
}

func TestProductos_LimpiarCamposConClear(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "medications", map[string]any{
		"name": "Penicilina", "unit_measure": "ml", "max_balance": "100", "expiry_date": "2024-12-31",
	})
	require.NotNil(t, p.MaxBalance)

	var out dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, "admin", http.MethodPut, "/api/medications/products/"+p.ID,
		map[string]any{"clear": []string{"max_balance", "expiry_date"}}, &out))
	assert.Nil(t, out.MaxBalance)
	assert.Nil(t, out.ExpiryDate)

	var e dto.ErrorResponse
	status := call(t, app, "admin", http.MethodPut, "/api/medications/products/"+p.ID,
		map[string]any{"clear": []string{"current_balance"}}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestSinToken_Retorna401(t *testing.T) {
	app := buildLedgerApp(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, "", http.MethodGet, "/api/feeds/products", nil, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestStock_EntradaSalidaAjusteYLibro(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "feeds", map[string]any{"name": "Concentrado", "unit_measure": "kg"})

	var mov dto.MovementResponse
	status := call(t, app, "operador", http.MethodPost, "/api/feeds/stock/entries",
		map[string]any{"product_id": p.ID, "quantity": "100", "unit_price": "2.5", "invoice": "FC-001"}, &mov)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "ENTRY", mov.Kind)
	assert.Equal(t, "100", mov.BalanceAfter.String())

	var e dto.ErrorResponse
	status = call(t, app, "operador", http.MethodPost, "/api/feeds/stock/exits",
		map[string]any{"product_id": p.ID, "quantity": "150"}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	status = call(t, app, "operador", http.MethodPost, "/api/feeds/stock/exits",
		map[string]any{"product_id": p.ID, "quantity": "0"}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_QUANTITY", e.Code)

	status = call(t, app, "operador", http.MethodPost, "/api/medications/stock/exits",
		map[string]any{"product_id": p.ID, "quantity": "1"}, &e)
	assert.Equal(t, http.StatusNotFound, status, "el producto no pertenece a la categoría de la ruta")

	adjust := map[string]any{"product_id": p.ID, "new_balance": "80", "reason": "conteo físico"}
	assert.Equal(t, http.StatusForbidden, call(t, app, "operador", http.MethodPost, "/api/feeds/stock/adjustments", adjust, nil))
	require.Equal(t, http.StatusCreated, call(t, app, "admin", http.MethodPost, "/api/feeds/stock/adjustments", adjust, &mov))
	assert.Equal(t, "ADJUSTMENT", mov.Kind)
	assert.Equal(t, "80", mov.BalanceAfter.String())

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/feeds/stock/movements?product_id="+p.ID, nil, &list))
	assert.Len(t, list.Items, 2)

	var summary dto.PeriodSummaryResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/feeds/stock/summary?from=2024-03-01&to=2024-03-15", nil, &summary))
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "100", summary.Items[0].TotalEntries.String())
	assert.Equal(t, "250", summary.Items[0].EntryValue.String())

	status = call(t, app, "operador", http.MethodGet, "/api/feeds/stock/movements?kind=TRANSFER", nil, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, e.Fields, "kind")
}

func TestStock_AlertasYPronostico(t *testing.T) {
	app := buildLedgerApp(t)
	createProduct(t, app, "medications", map[string]any{"name": "Agotado", "unit_measure": "ml"})
	createProduct(t, app, "medications", map[string]any{"name": "Vence pronto", "unit_measure": "ml", "opening_balance": "10", "expiry_date": "2024-03-20"})
	createProduct(t, app, "medications", map[string]any{"name": "Sano", "unit_measure": "ml", "opening_balance": "10"})

	var alerts []dto.StockAlertResponse
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/alerts", nil, &alerts))
	require.Len(t, alerts, 2)
	assert.Equal(t, "OUT_OF_STOCK", alerts[0].Status)
	assert.Equal(t, "EXPIRING_SOON", alerts[1].Status)

	alerts = nil
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/alerts?horizon_days=2", nil, &alerts))
	assert.Len(t, alerts, 1)

	var forecast []dto.ForecastResponse
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/forecast", nil, &forecast))
	require.Len(t, forecast, 3)
	for _, f := range forecast {
		assert.True(t, f.Unbounded)
		assert.Equal(t, "NO_CONSUMPTION", f.Recommendation)
	}

	var suggestions []dto.ReplenishmentSuggestionResponse
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/replenishment", nil, &suggestions))
	require.Len(t, suggestions, 1, "solo el producto agotado está en o bajo su umbral")
	assert.Equal(t, "Agotado", suggestions[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consumos y lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestConsumos_CicloCompletoConCuarentena(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "land-products", map[string]any{
		"name":                   "Glifosato",
		"unit_measure":           "l",
		"opening_balance":        "20",
		"withdrawal_period_days": 21,
	})

	var ev dto.ConsumptionResponse
	status := call(t, app, "operador", http.MethodPost, "/api/consumptions",
		map[string]any{"product_id": p.ID, "quantity": "4", "plot_id": "LOTE-3", "event_date": "2024-03-10"}, &ev)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "LAND_TREATMENT", ev.Kind)
	require.NotNil(t, ev.LiberationDate)
	assert.Equal(t, "2024-03-31", *ev.LiberationDate)

	var block dto.PlotBlockResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/plots/LOTE-3/block", nil, &block))
	assert.True(t, block.Blocked)
	require.NotNil(t, block.DaysRemaining)
	assert.Equal(t, 16, *block.DaysRemaining)
	assert.Equal(t, "Glifosato", block.ProductName)

	var releases dto.PlotReleaseListResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/plots/releases?days=30", nil, &releases))
	require.Len(t, releases.Items, 1)
	assert.Equal(t, "LOTE-3", releases.Items[0].PlotID)

	var edited dto.ConsumptionResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodPut, "/api/consumptions/"+ev.ID,
		map[string]any{"quantity": "6"}, &edited))
	assert.Equal(t, "6", edited.Quantity.String())

	var product dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/land-products/products/"+p.ID, nil, &product))
	assert.Equal(t, "14", product.CurrentBalance.String())

	var e dto.ErrorResponse
	status = call(t, app, "operador", http.MethodPut, "/api/consumptions/"+ev.ID, map[string]any{"quantity": "100"}, &e)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	assert.Equal(t, http.StatusNoContent, call(t, app, "operador", http.MethodDelete, "/api/consumptions/"+ev.ID, nil, nil))
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/land-products/products/"+p.ID, nil, &product))
	assert.Equal(t, "20", product.CurrentBalance.String())

	status = call(t, app, "operador", http.MethodGet, "/api/consumptions/"+ev.ID, nil, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "EVENT_NOT_FOUND", e.Code)

	block = dto.PlotBlockResponse{}
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/plots/LOTE-3/block", nil, &block))
	assert.False(t, block.Blocked)
}

func TestConsumos_StockInsuficienteNoCreaEvento(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "medications", map[string]any{"name": "Vacuna", "unit_measure": "dosis", "opening_balance": "2"})

	var e dto.ErrorResponse
	status := call(t, app, "veterinario", http.MethodPost, "/api/consumptions",
		map[string]any{"product_id": p.ID, "quantity": "3", "animal_id": "BOV-1"}, &e)
	assert.Equal(t, http.StatusConflict, status)

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/movements?kind=EXIT", nil, &list))
	assert.Empty(t, list.Items)

	status = call(t, app, "veterinario", http.MethodGet, "/api/plots/releases?days=0", nil, &e)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestConsumos_LimpiarLoteYFecha(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "land-products", map[string]any{
		"name": "Herbicida", "unit_measure": "l", "opening_balance": "10", "withdrawal_period_days": 7,
	})

	var ev dto.ConsumptionResponse
	require.Equal(t, http.StatusCreated, call(t, app, "operador", http.MethodPost, "/api/consumptions",
		map[string]any{"product_id": p.ID, "quantity": "1", "plot_id": "LOTE-9", "event_date": "2024-03-14"}, &ev))
	require.NotNil(t, ev.LiberationDate)

	var edited dto.ConsumptionResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodPut, "/api/consumptions/"+ev.ID,
		map[string]any{"clear": []string{"plot_id", "event_date"}}, &edited))
	assert.Nil(t, edited.PlotID)
	assert.Nil(t, edited.EventDate)
	assert.Nil(t, edited.LiberationDate)

	var block dto.PlotBlockResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/plots/LOTE-9/block", nil, &block))
	assert.False(t, block.Blocked)

	var e dto.ErrorResponse
	status := call(t, app, "operador", http.MethodPut, "/api/consumptions/"+ev.ID,
		map[string]any{"plot_id": "LOTE-1", "clear": []string{"plot_id"}}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStock_ConsumoPorAnimal(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "medications", map[string]any{
		"name": "Ivermectina 1%", "unit_measure": "ml", "opening_balance": "100", "unit_price": "3",
	})

	for _, qty := range []string{"5", "2.5"} {
		require.Equal(t, http.StatusCreated, call(t, app, "veterinario", http.MethodPost, "/api/consumptions",
			map[string]any{"product_id": p.ID, "quantity": qty, "animal_id": "BOV-0012"}, nil))
	}

	var report dto.AnimalConsumptionResponse
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/animals/BOV-0012/consumption", nil, &report))
	assert.Equal(t, "BOV-0012", report.AnimalID)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "7.5", report.Items[0].TotalConsumed.String())
	assert.Equal(t, 2, report.Items[0].Applications)
	require.NotNil(t, report.Items[0].TotalCost)
	assert.Equal(t, "22.5", report.Items[0].TotalCost.String())

	report = dto.AnimalConsumptionResponse{}
	require.Equal(t, http.StatusOK, call(t, app, "veterinario", http.MethodGet, "/api/feeds/stock/animals/BOV-0012/consumption", nil, &report))
	assert.Empty(t, report.Items)

	var e dto.ErrorResponse
	status := call(t, app, "veterinario", http.MethodGet, "/api/medications/stock/animals/BOV-0012/consumption?from=15-03-2024", nil, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, e.Fields, "from")
}

func TestStock_CantidadConMasDeCuatroDecimales(t *testing.T) {
	app := buildLedgerApp(t)
	p := createProduct(t, app, "medications", map[string]any{"name": "Oxitocina", "unit_measure": "ml", "opening_balance": "5"})

	var e dto.ErrorResponse
	status := call(t, app, "operador", http.MethodPost, "/api/medications/stock/exits",
		map[string]any{"product_id": p.ID, "quantity": "1.00005"}, &e)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_QUANTITY", e.Code)

	var product dto.ProductResponse
	require.Equal(t, http.StatusOK, call(t, app, "operador", http.MethodGet, "/api/medications/products/"+p.ID, nil, &product))
	assert.Equal(t, "5", product.CurrentBalance.String())
}
