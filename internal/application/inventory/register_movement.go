package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// CreditFromRequest adapta el request HTTP de entrada al motor de stock.
// El producto debe pertenecer a la categoría de la ruta.
func (e *StockEngine) CreditFromRequest(ctx context.Context, category entity.Category, userID string, in dto.StockEntryRequest) (*entity.StockMovement, error) {
	manufactured, err := dto.ParseDate(in.ManufactureDate)
	if err != nil {
		return nil, err
	}
	expiry, err := dto.ParseDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	return e.Credit(ctx, in.ProductID, in.Quantity, entity.MovementMeta{
		Category:        category,
		Origin:          entity.OriginManual,
		Invoice:         in.Invoice,
		Supplier:        in.Supplier,
		UnitPrice:       in.UnitPrice,
		Lot:             in.Lot,
		ManufactureDate: manufactured,
		ExpiryDate:      expiry,
		Reason:          in.Reason,
		Notes:           in.Notes,
		UserID:          userID,
	})
}

// DebitFromRequest adapta el request HTTP de salida manual al motor de stock.
func (e *StockEngine) DebitFromRequest(ctx context.Context, category entity.Category, userID string, in dto.StockExitRequest) (*entity.StockMovement, error) {
	return e.Debit(ctx, in.ProductID, in.Quantity, entity.MovementMeta{
		Category: category,
		Origin:   entity.OriginManual,
		AnimalID: in.AnimalID,
		PlotID:   in.PlotID,
		Reason:   in.Reason,
		Notes:    in.Notes,
		UserID:   userID,
	})
}

// AdjustFromRequest adapta el request HTTP de ajuste al motor de stock.
func (e *StockEngine) AdjustFromRequest(ctx context.Context, category entity.Category, userID string, in dto.StockAdjustmentRequest) (*entity.StockMovement, error) {
	return e.Adjust(ctx, in.ProductID, in.NewBalance, entity.MovementMeta{
		Category: category,
		Origin:   entity.OriginManual,
		Reason:   in.Reason,
		Notes:    in.Notes,
		UserID:   userID,
	})
}

// ApplyFromRequest adapta el request HTTP de consumo al binder.
func (b *ConsumptionBinder) ApplyFromRequest(ctx context.Context, userID string, in dto.ApplyConsumptionRequest) (*entity.ConsumptionEvent, error) {
	date, err := dto.ParseDate(in.EventDate)
	if err != nil {
		return nil, err
	}
	return b.Apply(ctx, ApplyInput{
		ProductID:      in.ProductID,
		Quantity:       in.Quantity,
		AnimalID:       in.AnimalID,
		PlotID:         in.PlotID,
		EventDate:      date,
		WithdrawalDays: in.WithdrawalDays,
		Notes:          in.Notes,
		UserID:         userID,
	})
}

// EditFromRequest adapta el request HTTP de edición de consumo al binder.
func (b *ConsumptionBinder) EditFromRequest(ctx context.Context, eventID, userID string, in dto.EditConsumptionRequest) (*entity.ConsumptionEvent, error) {
	date, err := dto.ParseDate(in.EventDate)
	if err != nil {
		return nil, err
	}
	return b.Edit(ctx, eventID, EditInput{
		ProductID:           in.ProductID,
		Quantity:            in.Quantity,
		AnimalID:            in.AnimalID,
		PlotID:              in.PlotID,
		EventDate:           date,
		WithdrawalDays:      in.WithdrawalDays,
		Notes:               in.Notes,
		ClearAnimal:         in.Clears("animal_id"),
		ClearPlot:           in.Clears("plot_id"),
		ClearEventDate:      in.Clears("event_date"),
		ClearWithdrawalDays: in.Clears("withdrawal_days"),
		UserID:              userID,
	})
}
