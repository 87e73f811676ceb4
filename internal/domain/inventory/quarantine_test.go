package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
)

func intPtr(n int) *int { return &n }

func TestComputeLiberationDate(t *testing.T) {
	lib := inventory.ComputeLiberationDate(day(2024, 1, 1), intPtr(21))
	require.NotNil(t, lib)
	assert.Equal(t, *day(2024, 1, 22), *lib)

	assert.Nil(t, inventory.ComputeLiberationDate(nil, intPtr(21)))
	assert.Nil(t, inventory.ComputeLiberationDate(day(2024, 1, 1), nil))
}

func TestWithdrawalDays_EventoPrevalece(t *testing.T) {
	p := &entity.Product{WithdrawalPeriodDays: intPtr(30)}
	assert.Equal(t, 10, *inventory.WithdrawalDays(intPtr(10), p))
	assert.Equal(t, 30, *inventory.WithdrawalDays(nil, p))
	assert.Nil(t, inventory.WithdrawalDays(nil, &entity.Product{}))
}

func TestLatestBlock_GatingDeLote(t *testing.T) {
	ev := &entity.ConsumptionEvent{
		ID:             "e1",
		LiberationDate: inventory.ComputeLiberationDate(day(2024, 1, 1), intPtr(21)),
	}
	events := []*entity.ConsumptionEvent{ev}

	before := time.Date(2024, 1, 21, 23, 59, 0, 0, time.UTC)
	block := inventory.LatestBlock(events, before)
	require.NotNil(t, block)
	assert.Equal(t, *day(2024, 1, 22), *block.LiberationDate)

	assert.Nil(t, inventory.LatestBlock(events, *day(2024, 1, 22)))
	assert.Nil(t, inventory.LatestBlock(events, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}

func TestLatestBlock_PeorCasoGobierna(t *testing.T) {
	early := &entity.ConsumptionEvent{ID: "a", LiberationDate: day(2024, 3, 1)}
	late := &entity.ConsumptionEvent{ID: "b", LiberationDate: day(2024, 4, 1)}
	noQuarantine := &entity.ConsumptionEvent{ID: "c"}

	block := inventory.LatestBlock([]*entity.ConsumptionEvent{early, noQuarantine, late}, *day(2024, 2, 1))
	require.NotNil(t, block)
	assert.Equal(t, "b", block.ID)
}
