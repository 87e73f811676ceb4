package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/testutil"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

func TestStockAlerts_OrdenPorGravedad(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, "ok", entity.CategoryMedication, "Sin novedad", "100")
	seedProduct(store, "out", entity.CategoryMedication, "Agotado", "0")

	low := seedProduct(store, "low", entity.CategoryMedication, "Bajo", "2")
	low.ReorderThreshold = dec("5")
	store.SeedProduct(low)

	expired := seedProduct(store, "exp", entity.CategoryMedication, "Vencido", "30")
	expired.ExpiryDate = date(2024, 3, 15)
	store.SeedProduct(expired)

	soon := seedProduct(store, "soon", entity.CategoryMedication, "Por vencer", "30")
	soon.ExpiryDate = date(2024, 4, 1)
	store.SeedProduct(soon)

	inactive := seedProduct(store, "off", entity.CategoryMedication, "Inactivo", "0")
	inactive.Active = false
	store.SeedProduct(inactive)

	seedProduct(store, "feed", entity.CategoryFeed, "Otra categoría", "0")

	uc := inventory.NewAlertsUseCase(store.Products(), store.Movements(), inventory.DefaultPolicies(), 30)
	alerts, err := uc.StockAlerts(context.Background(), entity.CategoryMedication, testNow, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 4)

	assert.Equal(t, "out", alerts[0].ProductID)
	assert.Equal(t, "OUT_OF_STOCK", alerts[0].Status)
	assert.Equal(t, "exp", alerts[1].ProductID)
	assert.Equal(t, "EXPIRED", alerts[1].Status)
	assert.Equal(t, "low", alerts[2].ProductID)
	assert.Equal(t, "LOW_STOCK", alerts[2].Status)
	assert.Equal(t, "soon", alerts[3].ProductID)
	assert.Equal(t, "EXPIRING_SOON", alerts[3].Status)
	require.NotNil(t, alerts[3].DaysToExpiry)
	assert.Equal(t, 17, *alerts[3].DaysToExpiry)

	narrow, err := uc.StockAlerts(context.Background(), entity.CategoryMedication, testNow, 10)
	require.NoError(t, err)
	assert.Len(t, narrow, 3, "con horizonte de 10 días el producto por vencer queda OK")
}

func TestStockAlerts_SinAlertasDevuelveListaVacia(t *testing.T) {
	store := testutil.NewStore()
	seedProduct(store, "ok", entity.CategoryFeed, "Heno", "100")

	uc := inventory.NewAlertsUseCase(store.Products(), store.Movements(), inventory.DefaultPolicies(), 30)
	alerts, err := uc.StockAlerts(context.Background(), entity.CategoryFeed, testNow, 0)
	require.NoError(t, err)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts)

	_, err = uc.StockAlerts(context.Background(), entity.Category("TOOLS"), testNow, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestForecast_CoberturaYRecomendacion(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedProduct(store, "heno", entity.CategoryFeed, "Heno", "130")
	seedProduct(store, "silo", entity.CategoryFeed, "Silo", "70")
	seedProduct(store, "sal", entity.CategoryFeed, "Sal", "40")
	seedProduct(store, "melaza", entity.CategoryFeed, "Melaza", "25")

	engine := inventory.NewStockEngine(store, logger.Nop()).WithClock(func() time.Time { return testNow.AddDate(0, 0, -3) })
	binder := inventory.NewConsumptionBinder(store, engine, store.Events(), inventory.DefaultPolicies(), logger.Nop()).
		WithClock(func() time.Time { return testNow.AddDate(0, 0, -3) })

	// heno: 30 en 30 días -> 1/día, 100 de saldo -> 100 días
	_, err := engine.Debit(ctx, "heno", dec("30"), entity.MovementMeta{})
	require.NoError(t, err)
	// silo: 60 en 30 días -> 2/día, 10 de saldo -> 5 días
	_, err = engine.Debit(ctx, "silo", dec("60"), entity.MovementMeta{})
	require.NoError(t, err)
	// melaza: 15 -> 0.5/día, 10 de saldo -> 20 días
	_, err = binder.Apply(ctx, inventory.ApplyInput{ProductID: "melaza", Quantity: dec("15")})
	require.NoError(t, err)
	// sal: consumo anulado, neto cero
	ev, err := binder.Apply(ctx, inventory.ApplyInput{ProductID: "sal", Quantity: dec("10")})
	require.NoError(t, err)
	require.NoError(t, binder.Cancel(ctx, ev.ID, ""))

	uc := inventory.NewAlertsUseCase(store.Products(), store.Movements(), inventory.DefaultPolicies(), 30)
	out, err := uc.Forecast(ctx, entity.CategoryFeed, testNow)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, "silo", out[0].ProductID)
	require.NotNil(t, out[0].DaysRemaining)
	assert.Equal(t, 5, *out[0].DaysRemaining)
	assert.Equal(t, "URGENT", out[0].Recommendation)

	assert.Equal(t, "melaza", out[1].ProductID)
	assert.Equal(t, 20, *out[1].DaysRemaining)
	assert.Equal(t, "OK", out[1].Recommendation)

	assert.Equal(t, "heno", out[2].ProductID)
	assert.Equal(t, 100, *out[2].DaysRemaining)
	assert.Equal(t, "OK", out[2].Recommendation)

	assert.Equal(t, "sal", out[3].ProductID)
	assert.True(t, out[3].Unbounded)
	assert.Nil(t, out[3].DaysRemaining)
	assert.Equal(t, "NO_CONSUMPTION", out[3].Recommendation)
}

func TestForecast_ConsumoFueraDeVentanaNoCuenta(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedProduct(store, "heno", entity.CategoryFeed, "Heno", "100")

	old := inventory.NewStockEngine(store, logger.Nop()).WithClock(func() time.Time { return testNow.AddDate(0, 0, -31) })
	_, err := old.Debit(ctx, "heno", dec("50"), entity.MovementMeta{})
	require.NoError(t, err)

	uc := inventory.NewAlertsUseCase(store.Products(), store.Movements(), inventory.DefaultPolicies(), 30)
	out, err := uc.Forecast(ctx, entity.CategoryFeed, testNow)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].Unbounded)
}
