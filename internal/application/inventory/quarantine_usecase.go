package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

// QuarantineUseCase consulta las cuarentenas (carencias) vigentes sobre los lotes.
type QuarantineUseCase struct {
	events   repository.ConsumptionEventRepository
	products repository.ProductRepository
}

// NewQuarantineUseCase construye el caso de uso.
func NewQuarantineUseCase(events repository.ConsumptionEventRepository, products repository.ProductRepository) *QuarantineUseCase {
	return &QuarantineUseCase{events: events, products: products}
}

// PlotBlocked indica si el lote no puede recibir animales en now. Gobierna la liberación más tardía.
func (uc *QuarantineUseCase) PlotBlocked(ctx context.Context, plotID string, now time.Time) (*dto.PlotBlockResponse, error) {
	if plotID == "" {
		return nil, domain.ErrInvalidInput
	}
	events, err := uc.events.ListQuarantinesByPlot(ctx, plotID, now)
	if err != nil {
		return nil, err
	}
	ev := inventory.LatestBlock(events, now)
	if ev == nil {
		return &dto.PlotBlockResponse{PlotID: plotID, Blocked: false}, nil
	}
	block, err := uc.toBlock(ctx, ev, now, map[string]*entity.Product{})
	if err != nil {
		return nil, err
	}
	return block, nil
}

// UpcomingReleases cuarentenas que terminan en los próximos days días (1..365), por fecha de liberación.
func (uc *QuarantineUseCase) UpcomingReleases(ctx context.Context, now time.Time, days int) (*dto.PlotReleaseListResponse, error) {
	if days < 1 || days > 365 {
		return nil, domain.ErrInvalidInput
	}
	events, err := uc.events.ListReleasingBetween(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	cache := make(map[string]*entity.Product)
	items := make([]dto.PlotBlockResponse, 0, len(events))
	for _, ev := range events {
		block, err := uc.toBlock(ctx, ev, now, cache)
		if err != nil {
			return nil, err
		}
		items = append(items, *block)
	}
	return &dto.PlotReleaseListResponse{Days: days, Items: items}, nil
}

func (uc *QuarantineUseCase) toBlock(ctx context.Context, ev *entity.ConsumptionEvent, now time.Time, cache map[string]*entity.Product) (*dto.PlotBlockResponse, error) {
	p, ok := cache[ev.ProductID]
	if !ok {
		var err error
		p, err = uc.products.GetByID(ctx, ev.ProductID)
		if err != nil {
			return nil, err
		}
		cache[ev.ProductID] = p
	}
	remaining := int(inventory.DateOnly(*ev.LiberationDate).Sub(inventory.DateOnly(now)).Hours() / 24)
	block := &dto.PlotBlockResponse{
		Blocked:        true,
		LiberationDate: dto.FormatDate(ev.LiberationDate),
		DaysRemaining:  &remaining,
		EventID:        ev.ID,
		EventKind:      ev.Kind,
		EventDate:      dto.FormatDate(ev.EventDate),
		ProductID:      ev.ProductID,
	}
	if ev.PlotID != nil {
		block.PlotID = *ev.PlotID
	}
	if p != nil {
		block.ProductName = p.Name
	}
	return block, nil
}
