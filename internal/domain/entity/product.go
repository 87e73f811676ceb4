package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un insumo controlado por el libro de stock (medicamento, ración o producto de terreno).
// CurrentBalance es un valor cacheado: solo el motor de stock lo modifica y siempre coincide
// con la suma de los efectos de sus movimientos.
type Product struct {
	ID                   string
	Category             Category
	Name                 string
	NameKey              string // nombre normalizado para unicidad (sin acentos, minúsculas)
	UnitMeasure          string
	CurrentBalance       decimal.Decimal
	ReorderThreshold     decimal.Decimal
	MaxBalance           *decimal.Decimal
	ExpiryDate           *time.Time
	WithdrawalPeriodDays *int // carencia en días; solo aplica a productos de terreno
	UnitPrice            *decimal.Decimal
	Lot                  string
	Supplier             string
	Active               bool
	CreatedBy            string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// StockValue devuelve saldo * precio unitario (cero si no hay precio).
func (p *Product) StockValue() decimal.Decimal {
	if p.UnitPrice == nil {
		return decimal.Zero
	}
	return p.CurrentBalance.Mul(*p.UnitPrice)
}
