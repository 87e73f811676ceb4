package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// ConsumptionEventRepository define el puerto de persistencia para eventos de consumo.
type ConsumptionEventRepository interface {
	Create(ctx context.Context, event *entity.ConsumptionEvent) error
	GetByID(ctx context.Context, id string) (*entity.ConsumptionEvent, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ConsumptionEvent, error)
	Update(ctx context.Context, event *entity.ConsumptionEvent) error
	Delete(ctx context.Context, id string) error
	// ListQuarantinesByPlot eventos del lote con fecha de liberación posterior a now.
	ListQuarantinesByPlot(ctx context.Context, plotID string, now time.Time) ([]*entity.ConsumptionEvent, error)
	// ListReleasingBetween eventos cuya liberación cae en (from, to].
	ListReleasingBetween(ctx context.Context, from, to time.Time) ([]*entity.ConsumptionEvent, error)
}
