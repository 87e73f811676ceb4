package dto

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para registrar un producto en el catálogo de una categoría.
type CreateProductRequest struct {
	Name                 string           `json:"name" validate:"required,min=1,max=200"`
	UnitMeasure          string           `json:"unit_measure" validate:"required,max=20"`
	ReorderThreshold     decimal.Decimal  `json:"reorder_threshold"`
	MaxBalance           *decimal.Decimal `json:"max_balance,omitempty"`
	WithdrawalPeriodDays *int             `json:"withdrawal_period_days,omitempty" validate:"omitempty,min=0,max=3650"`
	ExpiryDate           *string          `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	UnitPrice            *decimal.Decimal `json:"unit_price,omitempty"`
	Lot                  string           `json:"lot" validate:"max=50"`
	Supplier             string           `json:"supplier" validate:"max=200"`
	OpeningBalance       *decimal.Decimal `json:"opening_balance,omitempty"`
}

// UpdateProductRequest entrada para actualizar un producto. El saldo no se modifica aquí
// (solo vía movimientos).
type UpdateProductRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	UnitMeasure          *string          `json:"unit_measure" validate:"omitempty,min=1,max=20"`
	ReorderThreshold     *decimal.Decimal `json:"reorder_threshold"`
	MaxBalance           *decimal.Decimal `json:"max_balance"`
	WithdrawalPeriodDays *int             `json:"withdrawal_period_days" validate:"omitempty,min=0,max=3650"`
	ExpiryDate           *string          `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	Lot                  *string          `json:"lot" validate:"omitempty,max=50"`
	Supplier             *string          `json:"supplier" validate:"omitempty,max=200"`
	Active               *bool            `json:"active"`
	Clear                []string         `json:"clear" validate:"omitempty,dive,oneof=max_balance withdrawal_period_days expiry_date unit_price"`
}

// Clears indica si field figura en clear (campos que pasan a NULL).
func (r UpdateProductRequest) Clears(field string) bool {
	return slices.Contains(r.Clear, field)
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	Name         string `query:"name" validate:"max=200"`
	Active       string `query:"active" validate:"omitempty,oneof=true false"`
	LowStock     bool   `query:"low_stock"`
	ExpiringDays int    `query:"expiring_days" validate:"min=0,max=365"`
	Limit        int    `query:"limit" validate:"min=0,max=100"`
	Offset       int    `query:"offset" validate:"min=0"`
}

// ProductResponse salida de un producto, enriquecida con estado y valorización.
type ProductResponse struct {
	ID                   string           `json:"id"`
	Category             string           `json:"category"`
	Name                 string           `json:"name"`
	UnitMeasure          string           `json:"unit_measure"`
	CurrentBalance       decimal.Decimal  `json:"current_balance"`
	ReorderThreshold     decimal.Decimal  `json:"reorder_threshold"`
	MaxBalance           *decimal.Decimal `json:"max_balance,omitempty"`
	ExpiryDate           *string          `json:"expiry_date,omitempty"`
	WithdrawalPeriodDays *int             `json:"withdrawal_period_days,omitempty"`
	UnitPrice            *decimal.Decimal `json:"unit_price,omitempty"`
	Lot                  string           `json:"lot,omitempty"`
	Supplier             string           `json:"supplier,omitempty"`
	Active               bool             `json:"active"`
	Status               string           `json:"status"`
	DaysToExpiry         *int             `json:"days_to_expiry,omitempty"`
	StockValue           decimal.Decimal  `json:"stock_value"`
	CreatedBy            string           `json:"created_by,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
