package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
)

func TestNextBalance(t *testing.T) {
	d := decimal.NewFromInt
	got, err := inventory.NextBalance(entity.MovementEntry, d(10), d(5))
	require.NoError(t, err)
	assert.True(t, got.Equal(d(15)))

	got, err = inventory.NextBalance(entity.MovementExit, d(10), d(4))
	require.NoError(t, err)
	assert.True(t, got.Equal(d(6)))

	got, err = inventory.NextBalance(entity.MovementAdjustment, d(10), d(3))
	require.NoError(t, err)
	assert.True(t, got.Equal(d(3)))

	_, err = inventory.NextBalance("TRANSFER", d(10), d(3))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplayBalance(t *testing.T) {
	d := decimal.NewFromInt
	movs := []*entity.StockMovement{
		{Kind: entity.MovementEntry, BalanceBefore: d(0), BalanceAfter: d(100)},
		{Kind: entity.MovementExit, BalanceBefore: d(100), BalanceAfter: d(70)},
		{Kind: entity.MovementAdjustment, Quantity: d(80), BalanceBefore: d(70), BalanceAfter: d(80)},
	}
	assert.True(t, inventory.ReplayBalance(movs).Equal(d(80)))
}

func TestWeightedUnitPrice(t *testing.T) {
	d := decimal.NewFromInt
	price := d(10)
	// 10 u a 10 + 10 u a 20 = 15
	assert.True(t, inventory.WeightedUnitPrice(d(10), &price, d(10), d(20)).Equal(d(15)))
	// sin precio previo se toma el de la entrada
	assert.True(t, inventory.WeightedUnitPrice(d(10), nil, d(5), d(7)).Equal(d(7)))
	// saldo cero
	assert.True(t, inventory.WeightedUnitPrice(d(0), &price, d(5), d(7)).Equal(d(7)))
}

func TestNameKey(t *testing.T) {
	assert.Equal(t, "ivermectina 1%", inventory.NameKey("  Ivermectína   1% "))
	assert.Equal(t, inventory.NameKey("Ração Engorda"), inventory.NameKey("RACAO engorda"))
	assert.NotEqual(t, inventory.NameKey("Ureia"), inventory.NameKey("Ureia 45"))
}

func TestFitsScale(t *testing.T) {
	cases := map[string]bool{
		"0":                   true,
		"1.0001":              true,
		"1.00010000":          true,
		"99999999999999.9999": true,
		"0.00001":             false,
		"1.00005":             false,
		"100000000000000":     false,
		"-100000000000000":    false,
	}
	for in, want := range cases {
		assert.Equal(t, want, inventory.FitsScale(decimal.RequireFromString(in)), in)
	}
}
