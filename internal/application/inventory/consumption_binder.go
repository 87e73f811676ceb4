package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// ConsumptionBinder vincula los eventos de consumo (aplicación sanitaria, ración, tratamiento de terreno)
// con el libro de stock: cada evento vivo tiene exactamente una salida asociada.
type ConsumptionBinder struct {
	txRunner TxRunner
	engine   *StockEngine
	events   repository.ConsumptionEventRepository
	policies Policies
	log      *logger.Logger
	now      func() time.Time
}

// NewConsumptionBinder construye el caso de uso.
func NewConsumptionBinder(
	txRunner TxRunner,
	engine *StockEngine,
	events repository.ConsumptionEventRepository,
	policies Policies,
	log *logger.Logger,
) *ConsumptionBinder {
	return &ConsumptionBinder{
		txRunner: txRunner,
		engine:   engine,
		events:   events,
		policies: policies,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (b *ConsumptionBinder) WithClock(now func() time.Time) *ConsumptionBinder {
	b.now = now
	return b
}

// ApplyInput datos para registrar un consumo.
type ApplyInput struct {
	ProductID      string
	Quantity       decimal.Decimal
	AnimalID       *string
	PlotID         *string
	EventDate      *time.Time
	WithdrawalDays *int
	Notes          string
	UserID         string
}

// EditInput cambios parciales sobre un evento; nil = sin cambio.
// Los campos Clear* dejan el valor en NULL y no se pueden combinar con un valor nuevo.
type EditInput struct {
	ProductID           *string
	Quantity            *decimal.Decimal
	AnimalID            *string
	PlotID              *string
	EventDate           *time.Time
	WithdrawalDays      *int
	Notes               *string
	ClearAnimal         bool
	ClearPlot           bool
	ClearEventDate      bool
	ClearWithdrawalDays bool
	UserID              string
}

func (in EditInput) conflicting() bool {
	return (in.ClearAnimal && in.AnimalID != nil) ||
		(in.ClearPlot && in.PlotID != nil) ||
		(in.ClearEventDate && in.EventDate != nil) ||
		(in.ClearWithdrawalDays && in.WithdrawalDays != nil)
}

// Apply valida el producto, descuenta el stock y crea el evento en una sola transacción.
// Si la salida falla no queda ningún evento persistido.
func (b *ConsumptionBinder) Apply(ctx context.Context, in ApplyInput) (*entity.ConsumptionEvent, error) {
	if in.ProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity.Sign() <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.WithdrawalDays != nil && *in.WithdrawalDays < 0 {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.ConsumptionEvent
	err := b.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, eventRepo repository.ConsumptionEventRepository) error {
		product, err := productRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if !product.Active {
			return domain.ErrProductInactive
		}

		now := b.now()
		ev := &entity.ConsumptionEvent{
			ID:                     uuid.New().String(),
			Kind:                   product.Category.ConsumptionKind(),
			ProductID:              product.ID,
			Quantity:               in.Quantity,
			AnimalID:               in.AnimalID,
			PlotID:                 in.PlotID,
			EventDate:              in.EventDate,
			WithdrawalDaysOverride: in.WithdrawalDays,
			Notes:                  in.Notes,
			CreatedBy:              in.UserID,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		ev.LiberationDate = b.liberationDate(product, ev)

		if _, err := b.engine.DebitInTx(ctx, productRepo, movRepo, product.ID, ev.Quantity, b.consumptionMeta(ev, in.UserID)); err != nil {
			return err
		}
		if err := eventRepo.Create(ctx, ev); err != nil {
			return err
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.log.Info().Str("event_id", out.ID).Str("kind", out.Kind).Str("product_id", out.ProductID).Msg("consumo registrado")
	return out, nil
}

// Edit modifica un evento. Si cambia el producto o la cantidad se revierte la salida original
// (entrada REVERSAL) y se registra la nueva salida. Reversión, nueva salida y actualización del
// evento van en la misma transacción: si la nueva salida falla no queda nada aplicado.
func (b *ConsumptionBinder) Edit(ctx context.Context, eventID string, in EditInput) (*entity.ConsumptionEvent, error) {
	if in.Quantity != nil && in.Quantity.Sign() <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.WithdrawalDays != nil && *in.WithdrawalDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.conflicting() {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.ConsumptionEvent
	err := b.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, eventRepo repository.ConsumptionEventRepository) error {
		ev, err := eventRepo.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domain.ErrEventNotFound
		}
		// La reversión se vincula al animal y lote originales
		orig := *ev

		origProductID, origQty := ev.ProductID, ev.Quantity
		newProductID, newQty := origProductID, origQty
		if in.ProductID != nil && *in.ProductID != "" {
			newProductID = *in.ProductID
		}
		if in.Quantity != nil {
			newQty = *in.Quantity
		}

		// Bloqueo en orden de ID para no generar interbloqueos entre ediciones cruzadas
		ids := []string{origProductID}
		if newProductID != origProductID {
			ids = append(ids, newProductID)
			sort.Strings(ids)
		}
		var newProduct *entity.Product
		for _, id := range ids {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return domain.ErrProductNotFound
			}
			if id == newProductID {
				newProduct = p
			}
		}

		switch {
		case in.ClearAnimal:
			ev.AnimalID = nil
		case in.AnimalID != nil:
			ev.AnimalID = in.AnimalID
		}
		switch {
		case in.ClearPlot:
			ev.PlotID = nil
		case in.PlotID != nil:
			ev.PlotID = in.PlotID
		}
		switch {
		case in.ClearEventDate:
			ev.EventDate = nil
		case in.EventDate != nil:
			ev.EventDate = in.EventDate
		}
		switch {
		case in.ClearWithdrawalDays:
			ev.WithdrawalDaysOverride = nil
		case in.WithdrawalDays != nil:
			ev.WithdrawalDaysOverride = in.WithdrawalDays
		}
		if in.Notes != nil {
			ev.Notes = *in.Notes
		}

		if newProductID != origProductID || !newQty.Equal(origQty) {
			reversal := b.consumptionMeta(&orig, in.UserID)
			reversal.Origin = entity.OriginReversal
			reversal.Reason = "Reversión por edición de evento"
			if _, err := b.engine.CreditInTx(ctx, productRepo, movRepo, origProductID, origQty, reversal); err != nil {
				return err
			}
			ev.ProductID = newProductID
			ev.Quantity = newQty
			ev.Kind = newProduct.Category.ConsumptionKind()
			if _, err := b.engine.DebitInTx(ctx, productRepo, movRepo, newProductID, newQty, b.consumptionMeta(ev, in.UserID)); err != nil {
				return err
			}
		}

		ev.LiberationDate = b.liberationDate(newProduct, ev)
		ev.UpdatedAt = b.now()
		if err := eventRepo.Update(ctx, ev); err != nil {
			return err
		}
		out = ev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel devuelve al stock la cantidad completa del evento y lo elimina, en una sola transacción.
// La reversión se acepta aunque el producto haya sido desactivado.
func (b *ConsumptionBinder) Cancel(ctx context.Context, eventID, userID string) error {
	err := b.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, eventRepo repository.ConsumptionEventRepository) error {
		ev, err := eventRepo.GetForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if ev == nil {
			return domain.ErrEventNotFound
		}
		reversal := b.consumptionMeta(ev, userID)
		reversal.Origin = entity.OriginReversal
		reversal.Reason = "Reversión por anulación de evento"
		if _, err := b.engine.CreditInTx(ctx, productRepo, movRepo, ev.ProductID, ev.Quantity, reversal); err != nil {
			return err
		}
		return eventRepo.Delete(ctx, ev.ID)
	})
	if err != nil {
		return err
	}
	b.log.Info().Str("event_id", eventID).Msg("consumo anulado")
	return nil
}

// Get obtiene un evento por ID.
func (b *ConsumptionBinder) Get(ctx context.Context, eventID string) (*entity.ConsumptionEvent, error) {
	ev, err := b.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, domain.ErrEventNotFound
	}
	return ev, nil
}

// liberationDate solo aplica a categorías cuya carencia bloquea lotes.
func (b *ConsumptionBinder) liberationDate(product *entity.Product, ev *entity.ConsumptionEvent) *time.Time {
	if product == nil || !b.policies.For(product.Category).GatesPlots {
		return nil
	}
	return inventory.ComputeLiberationDate(ev.EventDate, inventory.WithdrawalDays(ev.WithdrawalDaysOverride, product))
}

func (b *ConsumptionBinder) consumptionMeta(ev *entity.ConsumptionEvent, userID string) entity.MovementMeta {
	eventID := ev.ID
	return entity.MovementMeta{
		Origin:   entity.OriginConsumption,
		EventID:  &eventID,
		AnimalID: ev.AnimalID,
		PlotID:   ev.PlotID,
		Reason:   "Consumo " + ev.Kind,
		UserID:   userID,
	}
}
