package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

// LedgerQueryUseCase consultas sobre el libro de movimientos (listado y resumen por periodo).
type LedgerQueryUseCase struct {
	movements repository.StockMovementRepository
}

// NewLedgerQueryUseCase construye el caso de uso.
func NewLedgerQueryUseCase(movements repository.StockMovementRepository) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{movements: movements}
}

// ListMovements lista movimientos de la categoría con filtros, del más reciente al más antiguo.
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, category entity.Category, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()

	filter := repository.MovementFilter{
		Category:  category,
		ProductID: q.ProductID,
		Kind:      q.Kind,
		AnimalID:  q.AnimalID,
		PlotID:    q.PlotID,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}
	from, err := dto.ParseDate(&q.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(&q.To)
	if err != nil {
		return nil, err
	}
	filter.From = from
	if to != nil {
		// hasta el final del día indicado
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.To = &end
	}

	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// PeriodSummary entradas, salidas y valor de entradas por producto entre from y to (fechas inclusivas).
func (uc *LedgerQueryUseCase) PeriodSummary(ctx context.Context, category entity.Category, from, to time.Time) (*dto.PeriodSummaryResponse, error) {
	if !category.Valid() || to.Before(from) {
		return nil, domain.ErrInvalidInput
	}
	end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	rows, err := uc.movements.Summarize(ctx, category, from, end)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementSummaryResponse, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.MovementSummaryResponse{
			ProductID:      r.ProductID,
			ProductName:    r.ProductName,
			UnitMeasure:    r.UnitMeasure,
			CurrentBalance: r.CurrentBalance,
			TotalEntries:   r.TotalEntries,
			TotalExits:     r.TotalExits,
			NetChange:      r.TotalEntries.Sub(r.TotalExits),
			EntryValue:     r.EntryValue,
			Movements:      r.Movements,
			LastMovementAt: r.LastMovementAt,
		})
	}
	return &dto.PeriodSummaryResponse{
		From:  from.Format(dto.DateLayout),
		To:    to.Format(dto.DateLayout),
		Items: items,
	}, nil
}

// AnimalConsumption informe de consumo de un animal por producto: salidas menos reversiones.
// Los eventos editados o anulados no cuentan; el costo usa el precio promedio vigente del producto.
func (uc *LedgerQueryUseCase) AnimalConsumption(ctx context.Context, category entity.Category, animalID string, q dto.AnimalConsumptionQuery) (*dto.AnimalConsumptionResponse, error) {
	if !category.Valid() || animalID == "" || len(animalID) > 64 {
		return nil, domain.ErrInvalidInput
	}
	from, err := dto.ParseDate(&q.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(&q.To)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.ErrInvalidInput
	}
	var end *time.Time
	if to != nil {
		e := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		end = &e
	}

	rows, err := uc.movements.ConsumptionByAnimal(ctx, category, animalID, from, end)
	if err != nil {
		return nil, err
	}
	out := &dto.AnimalConsumptionResponse{
		AnimalID:  animalID,
		From:      dto.FormatDate(from),
		To:        dto.FormatDate(to),
		Items:     make([]dto.AnimalConsumptionItemResponse, 0, len(rows)),
		TotalCost: decimal.Zero,
	}
	for _, r := range rows {
		consumed := r.Exits.Sub(r.Reversals)
		if consumed.Sign() <= 0 {
			continue
		}
		item := dto.AnimalConsumptionItemResponse{
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			UnitMeasure:       r.UnitMeasure,
			TotalConsumed:     consumed,
			Applications:      r.ExitCount - r.ReversalCount,
			LastApplicationAt: r.LastExitAt,
			UnitPrice:         r.UnitPrice,
		}
		if r.UnitPrice != nil {
			cost := consumed.Mul(*r.UnitPrice).Round(2)
			item.TotalCost = &cost
			out.TotalCost = out.TotalCost.Add(cost)
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// ToMovementResponse mapea un movimiento del libro a su salida HTTP.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              m.ID,
		ProductID:       m.ProductID,
		Category:        string(m.Category),
		Kind:            m.Kind,
		Origin:          m.Origin,
		Quantity:        m.Quantity,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		EventID:         m.EventID,
		AnimalID:        m.AnimalID,
		PlotID:          m.PlotID,
		Invoice:         m.Invoice,
		Supplier:        m.Supplier,
		UnitPrice:       m.UnitPrice,
		Lot:             m.Lot,
		ManufactureDate: dto.FormatDate(m.ManufactureDate),
		ExpiryDate:      dto.FormatDate(m.ExpiryDate),
		Reason:          m.Reason,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// ToConsumptionResponse mapea un evento de consumo a su salida HTTP.
func ToConsumptionResponse(ev *entity.ConsumptionEvent) dto.ConsumptionResponse {
	return dto.ConsumptionResponse{
		ID:             ev.ID,
		Kind:           ev.Kind,
		ProductID:      ev.ProductID,
		Quantity:       ev.Quantity,
		AnimalID:       ev.AnimalID,
		PlotID:         ev.PlotID,
		EventDate:      dto.FormatDate(ev.EventDate),
		WithdrawalDays: ev.WithdrawalDaysOverride,
		LiberationDate: dto.FormatDate(ev.LiberationDate),
		Notes:          ev.Notes,
		CreatedBy:      ev.CreatedBy,
		CreatedAt:      ev.CreatedAt,
		UpdatedAt:      ev.UpdatedAt,
	}
}
