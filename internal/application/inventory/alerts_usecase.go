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

// AlertsUseCase lado de lectura del libro: alertas de stock/vencimiento y previsión de consumo.
type AlertsUseCase struct {
	products    repository.ProductRepository
	movements   repository.StockMovementRepository
	policies    Policies
	horizonDays int
}

// NewAlertsUseCase construye el caso de uso. horizonDays es el horizonte por defecto de "por vencer".
func NewAlertsUseCase(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	policies Policies,
	horizonDays int,
) *AlertsUseCase {
	return &AlertsUseCase{
		products:    products,
		movements:   movements,
		policies:    policies,
		horizonDays: horizonDays,
	}
}

// StockAlerts productos activos de la categoría con estado distinto de OK, ordenados por gravedad.
// horizonDays <= 0 usa el horizonte configurado.
func (uc *AlertsUseCase) StockAlerts(ctx context.Context, category entity.Category, now time.Time, horizonDays int) ([]dto.StockAlertResponse, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if horizonDays <= 0 {
		horizonDays = uc.horizonDays
	}
	products, err := uc.products.ListActiveByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	alerts := inventory.StockAlerts(products, now, horizonDays)
	out := make([]dto.StockAlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, dto.StockAlertResponse{
			ProductID:        a.Product.ID,
			Name:             a.Product.Name,
			UnitMeasure:      a.Product.UnitMeasure,
			CurrentBalance:   a.Product.CurrentBalance,
			ReorderThreshold: a.Product.ReorderThreshold,
			ExpiryDate:       dto.FormatDate(a.Product.ExpiryDate),
			DaysToExpiry:     a.DaysToExpiry,
			Status:           string(a.Status),
		})
	}
	return out, nil
}

// Forecast estima los días de cobertura de cada producto activo de la categoría.
// Promedio diario = (salidas - reversiones) en la ventana de la categoría / días de la ventana.
// Orden: menor cobertura primero; productos sin consumo al final.
func (uc *AlertsUseCase) Forecast(ctx context.Context, category entity.Category, now time.Time) ([]dto.ForecastResponse, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidInput
	}
	policy := uc.policies.For(category)

	products, err := uc.products.ListActiveByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	since := now.AddDate(0, 0, -policy.WindowDays)
	totals, err := uc.movements.ConsumptionSince(ctx, category, since)
	if err != nil {
		return nil, err
	}
	consumed := make(map[string]decimal.Decimal, len(totals))
	for _, t := range totals {
		consumed[t.ProductID] = t.Exits.Sub(t.Reversals)
	}

	out := make([]dto.ForecastResponse, 0, len(products))
	for _, p := range products {
		avg := inventory.DailyAverage(consumed[p.ID], policy.WindowDays)
		f := inventory.ConsumptionForecast(p.CurrentBalance, avg, policy.Thresholds)
		item := dto.ForecastResponse{
			ProductID:      p.ID,
			Name:           p.Name,
			UnitMeasure:    p.UnitMeasure,
			CurrentBalance: p.CurrentBalance,
			DailyAverage:   avg.Round(4),
			Unbounded:      f.Unbounded,
			Recommendation: string(f.Recommendation),
		}
		if !f.Unbounded {
			days := f.DaysRemaining
			item.DaysRemaining = &days
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Unbounded != b.Unbounded {
			return !a.Unbounded
		}
		if !a.Unbounded && *a.DaysRemaining != *b.DaysRemaining {
			return *a.DaysRemaining < *b.DaysRemaining
		}
		return a.Name < b.Name
	})
	return out, nil
}
