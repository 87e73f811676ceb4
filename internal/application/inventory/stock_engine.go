package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
	"github.com/jhoicas/Inventario-pecuario/pkg/logger"
)

// StockEngine es el único escritor del saldo de los productos. Cada operación bloquea la fila
// del producto (SELECT FOR UPDATE), inserta el movimiento y actualiza el saldo en la misma transacción.
type StockEngine struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewStockEngine construye el motor de stock.
func NewStockEngine(txRunner TxRunner, log *logger.Logger) *StockEngine {
	return &StockEngine{txRunner: txRunner, log: log, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (e *StockEngine) WithClock(now func() time.Time) *StockEngine {
	e.now = now
	return e
}

// Credit registra una entrada. Se permite aunque el producto esté inactivo.
func (e *StockEngine) Credit(ctx context.Context, productID string, quantity decimal.Decimal, meta entity.MovementMeta) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := e.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, _ repository.ConsumptionEventRepository) error {
		var err error
		mov, err = e.CreditInTx(ctx, productRepo, movRepo, productID, quantity, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Debit registra una salida. Falla con ErrInsufficientStock si el saldo no alcanza.
func (e *StockEngine) Debit(ctx context.Context, productID string, quantity decimal.Decimal, meta entity.MovementMeta) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := e.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, _ repository.ConsumptionEventRepository) error {
		var err error
		mov, err = e.DebitInTx(ctx, productRepo, movRepo, productID, quantity, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Adjust fija el saldo a un valor absoluto (corrección de inventario físico).
func (e *StockEngine) Adjust(ctx context.Context, productID string, newBalance decimal.Decimal, meta entity.MovementMeta) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := e.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, _ repository.ConsumptionEventRepository) error {
		var err error
		mov, err = e.AdjustInTx(ctx, productRepo, movRepo, productID, newBalance, meta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CreditInTx ejecuta una entrada usando los repositorios de la transacción del caller.
// Si la entrada trae precio se recalcula el precio promedio ponderado; lote, proveedor
// y vencimiento pasan a ser los vigentes del producto.
func (e *StockEngine) CreditInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	productID string,
	quantity decimal.Decimal,
	meta entity.MovementMeta,
) (*entity.StockMovement, error) {
	if quantity.Sign() <= 0 || !inventory.FitsScale(quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	if meta.UnitPrice != nil && (meta.UnitPrice.Sign() < 0 || !inventory.FitsScale(*meta.UnitPrice)) {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || (meta.Category != "" && product.Category != meta.Category) {
		return nil, domain.ErrProductNotFound
	}
	if meta.UnitPrice != nil {
		price := inventory.WeightedUnitPrice(product.CurrentBalance, product.UnitPrice, quantity, *meta.UnitPrice)
		product.UnitPrice = &price
	}
	if meta.Lot != "" {
		product.Lot = meta.Lot
	}
	if meta.Supplier != "" {
		product.Supplier = meta.Supplier
	}
	if meta.ExpiryDate != nil {
		product.ExpiryDate = meta.ExpiryDate
	}
	return e.book(ctx, productRepo, movRepo, product, entity.MovementEntry, quantity, meta)
}

// DebitInTx ejecuta una salida usando los repositorios de la transacción del caller.
// Lee el saldo con la fila bloqueada: la verificación y la escritura son atómicas.
func (e *StockEngine) DebitInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	productID string,
	quantity decimal.Decimal,
	meta entity.MovementMeta,
) (*entity.StockMovement, error) {
	if quantity.Sign() <= 0 || !inventory.FitsScale(quantity) {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || (meta.Category != "" && product.Category != meta.Category) {
		return nil, domain.ErrProductNotFound
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}
	if product.CurrentBalance.LessThan(quantity) {
		e.log.Warn().
			Str("product_id", product.ID).
			Str("balance", product.CurrentBalance.String()).
			Str("requested", quantity.String()).
			Msg("salida rechazada por stock insuficiente")
		return nil, domain.ErrInsufficientStock
	}
	return e.book(ctx, productRepo, movRepo, product, entity.MovementExit, quantity, meta)
}

// AdjustInTx ejecuta un ajuste usando los repositorios de la transacción del caller.
func (e *StockEngine) AdjustInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	productID string,
	newBalance decimal.Decimal,
	meta entity.MovementMeta,
) (*entity.StockMovement, error) {
	if newBalance.Sign() < 0 || !inventory.FitsScale(newBalance) {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || (meta.Category != "" && product.Category != meta.Category) {
		return nil, domain.ErrProductNotFound
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}
	return e.book(ctx, productRepo, movRepo, product, entity.MovementAdjustment, newBalance, meta)
}

// book inserta el movimiento y deja en el producto el saldo posterior. Ambas escrituras van juntas.
func (e *StockEngine) book(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	product *entity.Product,
	kind string,
	quantity decimal.Decimal,
	meta entity.MovementMeta,
) (*entity.StockMovement, error) {
	before := product.CurrentBalance
	after, err := inventory.NextBalance(kind, before, quantity)
	if err != nil {
		return nil, err
	}
	origin := meta.Origin
	if origin == "" {
		origin = entity.OriginManual
	}
	now := e.now()
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		Category:        product.Category,
		Kind:            kind,
		Origin:          origin,
		Quantity:        quantity,
		BalanceBefore:   before,
		BalanceAfter:    after,
		EventID:         meta.EventID,
		AnimalID:        meta.AnimalID,
		PlotID:          meta.PlotID,
		Invoice:         meta.Invoice,
		Supplier:        meta.Supplier,
		UnitPrice:       meta.UnitPrice,
		Lot:             meta.Lot,
		ManufactureDate: meta.ManufactureDate,
		ExpiryDate:      meta.ExpiryDate,
		Reason:          meta.Reason,
		Notes:           meta.Notes,
		CreatedBy:       meta.UserID,
		CreatedAt:       now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	product.CurrentBalance = after
	product.UpdatedAt = now
	if err := productRepo.UpdateStock(ctx, product); err != nil {
		return nil, err
	}
	e.log.Debug().
		Str("product_id", product.ID).
		Str("kind", kind).
		Str("origin", origin).
		Str("before", before.String()).
		Str("after", after.String()).
		Msg("movimiento registrado")
	return mov, nil
}
