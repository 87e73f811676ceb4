package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEntryRequest body para POST /api/{categoria}/stock/entries.
type StockEntryRequest struct {
	ProductID       string           `json:"product_id" validate:"required,uuid"`
	Quantity        decimal.Decimal  `json:"quantity"`
	Invoice         string           `json:"invoice" validate:"max=50"`
	Supplier        string           `json:"supplier" validate:"max=200"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	Lot             string           `json:"lot" validate:"max=50"`
	ManufactureDate *string          `json:"manufacture_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpiryDate      *string          `json:"expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Reason          string           `json:"reason" validate:"max=200"`
	Notes           string           `json:"notes" validate:"max=1000"`
}

// StockExitRequest body para POST /api/{categoria}/stock/exits.
type StockExitRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	AnimalID  *string         `json:"animal_id,omitempty" validate:"omitempty,max=64"`
	PlotID    *string         `json:"plot_id,omitempty" validate:"omitempty,max=64"`
	Reason    string          `json:"reason" validate:"max=200"`
	Notes     string          `json:"notes" validate:"max=1000"`
}

// StockAdjustmentRequest body para POST /api/{categoria}/stock/adjustments.
type StockAdjustmentRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	NewBalance decimal.Decimal `json:"new_balance"`
	Reason     string          `json:"reason" validate:"required,max=200"`
	Notes      string          `json:"notes" validate:"max=1000"`
}

// MovementListQuery filtros del libro de movimientos.
type MovementListQuery struct {
	ProductID string `query:"product_id" validate:"omitempty,uuid"`
	Kind      string `query:"kind" validate:"omitempty,oneof=ENTRY EXIT ADJUSTMENT"`
	AnimalID  string `query:"animal_id" validate:"max=64"`
	PlotID    string `query:"plot_id" validate:"max=64"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `query:"limit" validate:"min=0,max=100"`
	Offset    int    `query:"offset" validate:"min=0"`
}

// AnimalConsumptionQuery periodo opcional del informe de consumo por animal.
type AnimalConsumptionQuery struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	Category        string           `json:"category"`
	Kind            string           `json:"kind"`
	Origin          string           `json:"origin"`
	Quantity        decimal.Decimal  `json:"quantity"`
	BalanceBefore   decimal.Decimal  `json:"balance_before"`
	BalanceAfter    decimal.Decimal  `json:"balance_after"`
	EventID         *string          `json:"event_id,omitempty"`
	AnimalID        *string          `json:"animal_id,omitempty"`
	PlotID          *string          `json:"plot_id,omitempty"`
	Invoice         string           `json:"invoice,omitempty"`
	Supplier        string           `json:"supplier,omitempty"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	Lot             string           `json:"lot,omitempty"`
	ManufactureDate *string          `json:"manufacture_date,omitempty"`
	ExpiryDate      *string          `json:"expiry_date,omitempty"`
	Reason          string           `json:"reason,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedBy       string           `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementSummaryResponse resumen de un producto en un periodo.
type MovementSummaryResponse struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitMeasure    string          `json:"unit_measure"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	TotalEntries   decimal.Decimal `json:"total_entries"`
	TotalExits     decimal.Decimal `json:"total_exits"`
	NetChange      decimal.Decimal `json:"net_change"`
	EntryValue     decimal.Decimal `json:"entry_value"`
	Movements      int             `json:"movements"`
	LastMovementAt *time.Time      `json:"last_movement_at,omitempty"`
}

// PeriodSummaryResponse resumen del periodo consultado.
type PeriodSummaryResponse struct {
	From  string                    `json:"from"`
	To    string                    `json:"to"`
	Items []MovementSummaryResponse `json:"items"`
}

// StockAlertResponse producto con alerta de stock o vencimiento.
type StockAlertResponse struct {
	ProductID        string          `json:"product_id"`
	Name             string          `json:"name"`
	UnitMeasure      string          `json:"unit_measure"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
	ExpiryDate       *string         `json:"expiry_date,omitempty"`
	DaysToExpiry     *int            `json:"days_to_expiry,omitempty"`
	Status           string          `json:"status"`
}

// ForecastResponse previsión de consumo de un producto.
// DaysRemaining se omite cuando no hubo consumo en la ventana (Unbounded).
type ForecastResponse struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	UnitMeasure    string          `json:"unit_measure"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	DailyAverage   decimal.Decimal `json:"daily_average"`
	DaysRemaining  *int            `json:"days_remaining,omitempty"`
	Unbounded      bool            `json:"unbounded"`
	Recommendation string          `json:"recommendation"`
}

// ReplenishmentSuggestionResponse producto a reponer con la cantidad sugerida de compra.
type ReplenishmentSuggestionResponse struct {
	Priority         int              `json:"priority"`
	ProductID        string           `json:"product_id"`
	Name             string           `json:"name"`
	UnitMeasure      string           `json:"unit_measure"`
	CurrentBalance   decimal.Decimal  `json:"current_balance"`
	ReorderThreshold decimal.Decimal  `json:"reorder_threshold"`
	TargetBalance    decimal.Decimal  `json:"target_balance"`
	SuggestedQty     decimal.Decimal  `json:"suggested_qty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	EstimatedCost    *decimal.Decimal `json:"estimated_cost,omitempty"` // suggested_qty × unit_price
	DailyAverage     decimal.Decimal  `json:"daily_average"`
	DaysRemaining    *int             `json:"days_remaining,omitempty"`
	Recommendation   string           `json:"recommendation"`
}

// AnimalConsumptionItemResponse consumo neto de un producto por un animal.
type AnimalConsumptionItemResponse struct {
	ProductID         string           `json:"product_id"`
	ProductName       string           `json:"product_name"`
	UnitMeasure       string           `json:"unit_measure"`
	TotalConsumed     decimal.Decimal  `json:"total_consumed"`
	Applications      int              `json:"applications"`
	LastApplicationAt *time.Time       `json:"last_application_at,omitempty"`
	UnitPrice         *decimal.Decimal `json:"unit_price,omitempty"`
	TotalCost         *decimal.Decimal `json:"total_cost,omitempty"` // total_consumed × unit_price
}

// AnimalConsumptionResponse informe de consumo de un animal.
type AnimalConsumptionResponse struct {
	AnimalID  string                          `json:"animal_id"`
	From      *string                         `json:"from,omitempty"`
	To        *string                         `json:"to,omitempty"`
	Items     []AnimalConsumptionItemResponse `json:"items"`
	TotalCost decimal.Decimal                 `json:"total_cost"`
}
