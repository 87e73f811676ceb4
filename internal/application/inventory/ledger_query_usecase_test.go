package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/testutil"
)

func TestAnimalConsumption_NetoDeEdicionesYAnulaciones(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	med := seedProduct(store, "med-1", entity.CategoryMedication, "Ivermectina 1%", "100")
	med.UnitPrice = ptr(dec("2.5"))
	store.SeedProduct(med)
	seedProduct(store, "med-2", entity.CategoryMedication, "Vitamina AD3", "20")
	seedProduct(store, "feed-1", entity.CategoryFeed, "Heno", "50")
	binder := newBinder(store)

	_, err := binder.Apply(ctx, inventory.ApplyInput{ProductID: "med-1", Quantity: dec("10"), AnimalID: ptr("cow-1")})
	require.NoError(t, err)
	ev2, err := binder.Apply(ctx, inventory.ApplyInput{ProductID: "med-1", Quantity: dec("5"), AnimalID: ptr("cow-1")})
	require.NoError(t, err)
	ev3, err := binder.Apply(ctx, inventory.ApplyInput{ProductID: "med-1", Quantity: dec("3"), AnimalID: ptr("cow-2")})
	require.NoError(t, err)
	_, err = binder.Apply(ctx, inventory.ApplyInput{ProductID: "med-2", Quantity: dec("2"), AnimalID: ptr("cow-1")})
	require.NoError(t, err)
	_, err = binder.Apply(ctx, inventory.ApplyInput{ProductID: "feed-1", Quantity: dec("8"), AnimalID: ptr("cow-1")})
	require.NoError(t, err)

	// ev2 pasa a cow-2 con 4 unidades; ev3 se anula
	_, err = binder.Edit(ctx, ev2.ID, inventory.EditInput{AnimalID: ptr("cow-2"), Quantity: ptr(dec("4"))})
	require.NoError(t, err)
	require.NoError(t, binder.Cancel(ctx, ev3.ID, "vet-1"))

	uc := inventory.NewLedgerQueryUseCase(store.Movements())

	cow1, err := uc.AnimalConsumption(ctx, entity.CategoryMedication, "cow-1", dto.AnimalConsumptionQuery{})
	require.NoError(t, err)
	assert.Equal(t, "cow-1", cow1.AnimalID)
	require.Len(t, cow1.Items, 2, "el heno es de otra categoría")
	iver := cow1.Items[0]
	assert.Equal(t, "Ivermectina 1%", iver.ProductName)
	assert.True(t, iver.TotalConsumed.Equal(dec("10")))
	assert.Equal(t, 1, iver.Applications)
	require.NotNil(t, iver.LastApplicationAt)
	assert.Equal(t, testNow, *iver.LastApplicationAt)
	require.NotNil(t, iver.TotalCost)
	assert.True(t, iver.TotalCost.Equal(dec("25")))
	vit := cow1.Items[1]
	assert.True(t, vit.TotalConsumed.Equal(dec("2")))
	assert.Nil(t, vit.TotalCost, "sin precio no hay costo")
	assert.True(t, cow1.TotalCost.Equal(dec("25")))

	cow2, err := uc.AnimalConsumption(ctx, entity.CategoryMedication, "cow-2", dto.AnimalConsumptionQuery{})
	require.NoError(t, err)
	require.Len(t, cow2.Items, 1)
	assert.True(t, cow2.Items[0].TotalConsumed.Equal(dec("4")))
	assert.Equal(t, 1, cow2.Items[0].Applications)
	assert.True(t, cow2.TotalCost.Equal(dec("10")))
}

func TestAnimalConsumption_Periodo(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore()
	seedProduct(store, "med-1", entity.CategoryMedication, "Ivermectina 1%", "100")
	_, err := newBinder(store).Apply(ctx, inventory.ApplyInput{ProductID: "med-1", Quantity: dec("1"), AnimalID: ptr("cow-1")})
	require.NoError(t, err)
	uc := inventory.NewLedgerQueryUseCase(store.Movements())

	out, err := uc.AnimalConsumption(ctx, entity.CategoryMedication, "cow-1", dto.AnimalConsumptionQuery{From: "2024-03-15", To: "2024-03-15"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 1, "el día final es inclusivo")
	require.NotNil(t, out.From)
	assert.Equal(t, "2024-03-15", *out.From)

	out, err = uc.AnimalConsumption(ctx, entity.CategoryMedication, "cow-1", dto.AnimalConsumptionQuery{From: "2024-03-16"})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	_, err = uc.AnimalConsumption(ctx, entity.CategoryMedication, "cow-1", dto.AnimalConsumptionQuery{From: "2024-03-16", To: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.AnimalConsumption(ctx, entity.CategoryMedication, "", dto.AnimalConsumptionQuery{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
