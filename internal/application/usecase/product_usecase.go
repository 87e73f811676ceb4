package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

// ProductUseCase catálogo de productos por categoría. El saldo solo cambia vía movimientos.
type ProductUseCase struct {
	repo        repository.ProductRepository
	txRunner    inventory.TxRunner
	engine      *inventory.StockEngine
	horizonDays int
	now         func() time.Time
}

// NewProductUseCase construye el caso de uso. horizonDays se usa para clasificar "por vencer".
func NewProductUseCase(
	repo repository.ProductRepository,
	txRunner inventory.TxRunner,
	engine *inventory.StockEngine,
	horizonDays int,
) *ProductUseCase {
	return &ProductUseCase{
		repo:        repo,
		txRunner:    txRunner,
		engine:      engine,
		horizonDays: horizonDays,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *ProductUseCase) WithClock(now func() time.Time) *ProductUseCase {
	uc.now = now
	return uc
}

// Register crea un producto. Falla con ErrDuplicateName si existe otro activo con el mismo nombre
// en la categoría y con ErrInvalidRange si el máximo no supera el umbral de reposición.
// Un saldo inicial positivo se registra como entrada OPENING en la misma transacción.
func (uc *ProductUseCase) Register(ctx context.Context, category entity.Category, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.UnitMeasure)
	if name == "" || unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.ReorderThreshold.Sign() < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.WithdrawalPeriodDays != nil && *in.WithdrawalPeriodDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.Sign() < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.OpeningBalance != nil && in.OpeningBalance.Sign() < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := checkRange(in.ReorderThreshold, in.MaxBalance); err != nil {
		return nil, err
	}
	expiry, err := dto.ParseDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:                   uuid.New().String(),
		Category:             category,
		Name:                 name,
		NameKey:              domaininv.NameKey(name),
		UnitMeasure:          unit,
		CurrentBalance:       decimal.Zero,
		ReorderThreshold:     in.ReorderThreshold,
		MaxBalance:           in.MaxBalance,
		ExpiryDate:           expiry,
		WithdrawalPeriodDays: in.WithdrawalPeriodDays,
		UnitPrice:            in.UnitPrice,
		Lot:                  strings.TrimSpace(in.Lot),
		Supplier:             strings.TrimSpace(in.Supplier),
		Active:               true,
		CreatedBy:            userID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, _ repository.ConsumptionEventRepository) error {
		existing, err := productRepo.FindActiveByNameKey(ctx, category, product.NameKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateName
		}
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.OpeningBalance != nil && in.OpeningBalance.Sign() > 0 {
			if _, err := uc.engine.CreditInTx(ctx, productRepo, movRepo, product.ID, *in.OpeningBalance, entity.MovementMeta{
				Origin:     entity.OriginOpening,
				UnitPrice:  in.UnitPrice,
				Lot:        product.Lot,
				Supplier:   product.Supplier,
				ExpiryDate: expiry,
				Reason:     "Saldo inicial",
				UserID:     userID,
			}); err != nil {
				return err
			}
			stored, err := productRepo.GetByID(ctx, product.ID)
			if err != nil {
				return err
			}
			if stored != nil {
				product = stored
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(product), nil
}

// GetByID obtiene un producto de la categoría.
func (uc *ProductUseCase) GetByID(ctx context.Context, category entity.Category, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Category != category {
		return nil, domain.ErrProductNotFound
	}
	return uc.toProductResponse(product), nil
}

// Update aplica cambios parciales. Re-verifica la unicidad del nombre, bloquea el cambio de unidad
// si el producto ya tiene movimientos y valida el rango con los valores resultantes.
func (uc *ProductUseCase) Update(ctx context.Context, category entity.Category, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if (in.Clears("max_balance") && in.MaxBalance != nil) ||
		(in.Clears("withdrawal_period_days") && in.WithdrawalPeriodDays != nil) ||
		(in.Clears("expiry_date") && in.ExpiryDate != nil) ||
		(in.Clears("unit_price") && in.UnitPrice != nil) {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, _ repository.ConsumptionEventRepository) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || product.Category != category {
			return domain.ErrProductNotFound
		}

		checkName := false
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.ErrInvalidInput
			}
			key := domaininv.NameKey(name)
			checkName = key != product.NameKey
			product.Name = name
			product.NameKey = key
		}
		if in.Active != nil {
			if *in.Active && !product.Active {
				checkName = true
			}
			product.Active = *in.Active
		}
		if checkName && product.Active {
			existing, err := productRepo.FindActiveByNameKey(ctx, category, product.NameKey)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != product.ID {
				return domain.ErrDuplicateName
			}
		}

		if in.UnitMeasure != nil {
			unit := strings.TrimSpace(*in.UnitMeasure)
			if unit == "" {
				return domain.ErrInvalidInput
			}
			if unit != product.UnitMeasure {
				n, err := movRepo.CountByProduct(ctx, product.ID)
				if err != nil {
					return err
				}
				if n > 0 {
					return domain.ErrUnitLocked
				}
				product.UnitMeasure = unit
			}
		}

		if in.ReorderThreshold != nil {
			if in.ReorderThreshold.Sign() < 0 {
				return domain.ErrInvalidInput
			}
			product.ReorderThreshold = *in.ReorderThreshold
		}
		switch {
		case in.Clears("max_balance"):
			product.MaxBalance = nil
		case in.MaxBalance != nil:
			product.MaxBalance = in.MaxBalance
		}
		if err := checkRange(product.ReorderThreshold, product.MaxBalance); err != nil {
			return err
		}
		switch {
		case in.Clears("withdrawal_period_days"):
			product.WithdrawalPeriodDays = nil
		case in.WithdrawalPeriodDays != nil:
			if *in.WithdrawalPeriodDays < 0 {
				return domain.ErrInvalidInput
			}
			product.WithdrawalPeriodDays = in.WithdrawalPeriodDays
		}
		switch {
		case in.Clears("expiry_date"):
			product.ExpiryDate = nil
		case in.ExpiryDate != nil:
			expiry, err := dto.ParseDate(in.ExpiryDate)
			if err != nil {
				return err
			}
			product.ExpiryDate = expiry
		}
		switch {
		case in.Clears("unit_price"):
			product.UnitPrice = nil
		case in.UnitPrice != nil:
			if in.UnitPrice.Sign() < 0 || !domaininv.FitsScale(*in.UnitPrice) {
				return domain.ErrInvalidInput
			}
			product.UnitPrice = in.UnitPrice
		}
		if in.Lot != nil {
			product.Lot = strings.TrimSpace(*in.Lot)
		}
		if in.Supplier != nil {
			product.Supplier = strings.TrimSpace(*in.Supplier)
		}

		product.UpdatedAt = uc.now()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toProductResponse(out), nil
}

// Deactivate marca el producto como inactivo. Nunca se borra: el historial del libro se conserva.
// Lee con la fila bloqueada para no pisar precio, lote ni vencimiento de una entrada concurrente.
func (uc *ProductUseCase) Deactivate(ctx context.Context, category entity.Category, id string) error {
	return uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.StockMovementRepository, _ repository.ConsumptionEventRepository) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || product.Category != category {
			return domain.ErrProductNotFound
		}
		if !product.Active {
			return nil
		}
		product.Active = false
		product.UpdatedAt = uc.now()
		return productRepo.Update(ctx, product)
	})
}

// List lista productos de la categoría con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, category entity.Category, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()

	filter := repository.ProductFilter{
		Category:     category,
		NameContains: strings.TrimSpace(q.Name),
		LowStockOnly: q.LowStock,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	switch q.Active {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}
	if q.ExpiringDays > 0 {
		days := q.ExpiringDays
		filter.ExpiringWithinDays = &days
	}

	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *uc.toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ClassifyStatus clasifica el producto en now con el horizonte configurado.
func (uc *ProductUseCase) ClassifyStatus(p *entity.Product, now time.Time) domaininv.StockStatus {
	return domaininv.ClassifyStatus(p, now, uc.horizonDays)
}

func checkRange(threshold decimal.Decimal, max *decimal.Decimal) error {
	if max != nil && max.LessThanOrEqual(threshold) {
		return domain.ErrInvalidRange
	}
	return nil
}

func (uc *ProductUseCase) toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	now := uc.now()
	return &dto.ProductResponse{
		ID:                   p.ID,
		Category:             string(p.Category),
		Name:                 p.Name,
		UnitMeasure:          p.UnitMeasure,
		CurrentBalance:       p.CurrentBalance,
		ReorderThreshold:     p.ReorderThreshold,
		MaxBalance:           p.MaxBalance,
		ExpiryDate:           dto.FormatDate(p.ExpiryDate),
		WithdrawalPeriodDays: p.WithdrawalPeriodDays,
		UnitPrice:            p.UnitPrice,
		Lot:                  p.Lot,
		Supplier:             p.Supplier,
		Active:               p.Active,
		Status:               string(uc.ClassifyStatus(p, now)),
		DaysToExpiry:         domaininv.DaysToExpiry(p, now),
		StockValue:           p.StockValue(),
		CreatedBy:            p.CreatedBy,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
