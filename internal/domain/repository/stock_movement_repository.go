package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro.
type MovementFilter struct {
	Category  entity.Category
	ProductID string
	Kind      string
	AnimalID  string
	PlotID    string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// ConsumptionTotals cantidades agregadas de un producto desde una fecha.
type ConsumptionTotals struct {
	ProductID string
	Exits     decimal.Decimal
	Reversals decimal.Decimal
}

// AnimalConsumptionTotals salidas y reversiones vinculadas a un animal, por producto.
// UnitPrice es el precio promedio vigente del producto.
type AnimalConsumptionTotals struct {
	ProductID     string
	ProductName   string
	UnitMeasure   string
	UnitPrice     *decimal.Decimal
	Exits         decimal.Decimal
	Reversals     decimal.Decimal
	ExitCount     int
	ReversalCount int
	LastExitAt    *time.Time
}

// MovementSummary resumen por producto de un periodo.
type MovementSummary struct {
	ProductID      string
	ProductName    string
	UnitMeasure    string
	CurrentBalance decimal.Decimal
	TotalEntries   decimal.Decimal
	TotalExits     decimal.Decimal
	EntryValue     decimal.Decimal
	Movements      int
	LastMovementAt *time.Time
}

// StockMovementRepository puerto del libro de movimientos. Los movimientos son inmutables:
// no existe operación de actualización ni de borrado.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID string) (int, error)
	// ConsumptionSince suma salidas y reversiones por producto de la categoría desde since.
	ConsumptionSince(ctx context.Context, category entity.Category, since time.Time) ([]ConsumptionTotals, error)
	Summarize(ctx context.Context, category entity.Category, from, to time.Time) ([]MovementSummary, error)
	// ConsumptionByAnimal agrega por producto los movimientos de la categoría vinculados al animal.
	// from y to son opcionales.
	ConsumptionByAnimal(ctx context.Context, category entity.Category, animalID string, from, to *time.Time) ([]AnimalConsumptionTotals, error)
}
