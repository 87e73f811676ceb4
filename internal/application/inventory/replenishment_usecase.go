package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/application/dto"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de compra de una categoría.
// Combina el saldo con el consumo reciente para priorizar los productos críticos.
type ReplenishmentUseCase struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	policies  Policies
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	policies Policies,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		products:  products,
		movements: movements,
		policies:  policies,
	}
}

// GenerateReplenishmentList devuelve los productos activos en o bajo su umbral de reposición con la
// cantidad sugerida de compra. El saldo objetivo es max_balance, o 1.5 × umbral si no está definido.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, category entity.Category, now time.Time) ([]dto.ReplenishmentSuggestionResponse, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	policy := uc.policies.For(category)

	// 1. Productos bajo el umbral
	products, err := uc.products.ListActiveByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	below := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		if p.CurrentBalance.LessThanOrEqual(p.ReorderThreshold) {
			below = append(below, p)
		}
	}
	if len(below) == 0 {
		return []dto.ReplenishmentSuggestionResponse{}, nil
	}

	// 2. Consumo neto en la ventana de la categoría
	totals, err := uc.movements.ConsumptionSince(ctx, category, now.AddDate(0, 0, -policy.WindowDays))
	if err != nil {
		return nil, err
	}
	consumed := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		consumed[t.ProductID] = t.Exits.Sub(t.Reversals)
	}

	// 3. Sugerencias
	factor := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionResponse, 0, len(below))
	for _, p := range below {
		target := p.ReorderThreshold.Mul(factor)
		if p.MaxBalance != nil {
			target = *p.MaxBalance
		}
		qty := target.Sub(p.CurrentBalance)
		if qty.Sign() < 0 {
			qty = decimal.Zero
		}

		avg := inventory.DailyAverage(consumed[p.ID], policy.WindowDays)
		f := inventory.ConsumptionForecast(p.CurrentBalance, avg, policy.Thresholds)

		item := dto.ReplenishmentSuggestionResponse{
			ProductID:        p.ID,
			Name:             p.Name,
			UnitMeasure:      p.UnitMeasure,
			CurrentBalance:   p.CurrentBalance,
			ReorderThreshold: p.ReorderThreshold,
			TargetBalance:    target,
			SuggestedQty:     qty,
			UnitPrice:        p.UnitPrice,
			DailyAverage:     avg.Round(4),
			Recommendation:   string(f.Recommendation),
		}
		if p.UnitPrice != nil {
			cost := qty.Mul(*p.UnitPrice).Round(2)
			item.EstimatedCost = &cost
		}
		if !f.Unbounded {
			days := f.DaysRemaining
			item.DaysRemaining = &days
		}
		suggestions = append(suggestions, item)
	}

	// 4. Orden: menor cobertura primero, luego mayor déficit bajo el umbral
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.DaysRemaining == nil) != (b.DaysRemaining == nil) {
			return a.DaysRemaining != nil
		}
		if a.DaysRemaining != nil && *a.DaysRemaining != *b.DaysRemaining {
			return *a.DaysRemaining < *b.DaysRemaining
		}
		defA := a.ReorderThreshold.Sub(a.CurrentBalance)
		defB := b.ReorderThreshold.Sub(b.CurrentBalance)
		if !defA.Equal(defB) {
			return defA.GreaterThan(defB)
		}
		return a.Name < b.Name
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
