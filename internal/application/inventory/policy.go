package inventory

import (
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
)

// CategoryPolicy reglas propias de cada categoría de producto.
type CategoryPolicy struct {
	Thresholds inventory.ForecastThresholds
	WindowDays int  // ventana de consumo para el pronóstico
	GatesPlots bool // la carencia bloquea el ingreso de animales al lote
}

// Policies política por categoría.
type Policies map[entity.Category]CategoryPolicy

// DefaultPolicies valores por defecto: medicamentos 7/30 sobre 90 días, raciones 7/15 sobre 30 días,
// productos de terreno 15/45 sobre 180 días con bloqueo de lotes.
func DefaultPolicies() Policies {
	return Policies{
		entity.CategoryMedication: {
			Thresholds: inventory.ForecastThresholds{UrgentDays: 7, SoonDays: 30},
			WindowDays: 90,
		},
		entity.CategoryFeed: {
			Thresholds: inventory.ForecastThresholds{UrgentDays: 7, SoonDays: 15},
			WindowDays: 30,
		},
		entity.CategoryLandProduct: {
			Thresholds: inventory.ForecastThresholds{UrgentDays: 15, SoonDays: 45},
			WindowDays: 180,
			GatesPlots: true,
		},
	}
}

// For devuelve la política de la categoría (o la de medicamentos si no está configurada).
func (p Policies) For(c entity.Category) CategoryPolicy {
	if pol, ok := p[c]; ok {
		return pol
	}
	return DefaultPolicies()[entity.CategoryMedication]
}
