package dto

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// ApplyConsumptionRequest body para POST /api/consumptions.
type ApplyConsumptionRequest struct {
	ProductID      string          `json:"product_id" validate:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity"`
	AnimalID       *string         `json:"animal_id,omitempty" validate:"omitempty,max=64"`
	PlotID         *string         `json:"plot_id,omitempty" validate:"omitempty,max=64"`
	EventDate      *string         `json:"event_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	WithdrawalDays *int            `json:"withdrawal_days,omitempty" validate:"omitempty,min=0,max=3650"`
	Notes          string          `json:"notes" validate:"max=1000"`
}

// EditConsumptionRequest body para PUT /api/consumptions/:id (campos opcionales).
// Un campo omitido o null no cambia; para dejarlo vacío se nombra en clear.
type EditConsumptionRequest struct {
	ProductID      *string          `json:"product_id" validate:"omitempty,uuid"`
	Quantity       *decimal.Decimal `json:"quantity"`
	AnimalID       *string          `json:"animal_id" validate:"omitempty,max=64"`
	PlotID         *string          `json:"plot_id" validate:"omitempty,max=64"`
	EventDate      *string          `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	WithdrawalDays *int             `json:"withdrawal_days" validate:"omitempty,min=0,max=3650"`
	Notes          *string          `json:"notes" validate:"omitempty,max=1000"`
	Clear          []string         `json:"clear" validate:"omitempty,dive,oneof=animal_id plot_id event_date withdrawal_days"`
}

// Clears indica si field figura en clear.
func (r EditConsumptionRequest) Clears(field string) bool {
	return slices.Contains(r.Clear, field)
}

// ConsumptionResponse salida de un evento de consumo.
type ConsumptionResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	ProductID      string          `json:"product_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	AnimalID       *string         `json:"animal_id,omitempty"`
	PlotID         *string         `json:"plot_id,omitempty"`
	EventDate      *string         `json:"event_date,omitempty"`
	WithdrawalDays *int            `json:"withdrawal_days,omitempty"`
	LiberationDate *string         `json:"liberation_date,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedBy      string          `json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PlotBlockResponse estado de cuarentena de un lote.
type PlotBlockResponse struct {
	PlotID         string  `json:"plot_id"`
	Blocked        bool    `json:"blocked"`
	LiberationDate *string `json:"liberation_date,omitempty"`
	DaysRemaining  *int    `json:"days_remaining,omitempty"`
	EventID        string  `json:"event_id,omitempty"`
	EventKind      string  `json:"event_kind,omitempty"`
	EventDate      *string `json:"event_date,omitempty"`
	ProductID      string  `json:"product_id,omitempty"`
	ProductName    string  `json:"product_name,omitempty"`
}

// PlotReleaseListResponse lotes que se liberan en los próximos días.
type PlotReleaseListResponse struct {
	Days  int                 `json:"days"`
	Items []PlotBlockResponse `json:"items"`
}
