package inventory_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/testutil"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func seedProduct(store *testutil.Store, id string, cat entity.Category, name, balance string) *entity.Product {
	p := &entity.Product{
		ID:               id,
		Category:         cat,
		Name:             name,
		UnitMeasure:      "kg",
		CurrentBalance:   dec(balance),
		ReorderThreshold: decimal.Zero,
		Active:           true,
		CreatedAt:        testNow,
		UpdatedAt:        testNow,
	}
	store.SeedProduct(p)
	return p
}

func newEngine(store *testutil.Store) *inventory.StockEngine {
	return inventory.NewStockEngine(store, logger.Nop()).WithClock(fixedClock)
}

func newBinder(store *testutil.Store) *inventory.ConsumptionBinder {
	return inventory.NewConsumptionBinder(store, newEngine(store), store.Events(), inventory.DefaultPolicies(), logger.Nop()).
		WithClock(fixedClock)
}
