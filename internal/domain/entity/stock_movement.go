package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de stock.
const (
	MovementEntry      = "ENTRY"      // entrada
	MovementExit       = "EXIT"       // salida
	MovementAdjustment = "ADJUSTMENT" // ajuste a valor absoluto
)

// Origen del movimiento.
const (
	OriginManual      = "MANUAL"      // registrado directamente por un usuario
	OriginOpening     = "OPENING"     // saldo inicial al registrar el producto
	OriginConsumption = "CONSUMPTION" // salida generada por un evento de consumo
	OriginReversal    = "REVERSAL"    // entrada compensatoria por edición o anulación de un evento
)

// StockMovement es una entrada inmutable del libro. BalanceBefore y BalanceAfter se fijan al insertar.
type StockMovement struct {
	ID            string
	ProductID     string
	Category      Category
	Kind          string
	Origin        string
	Quantity      decimal.Decimal // siempre positiva; en ADJUSTMENT es el saldo absoluto
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal

	// Vínculo con el evento que consumió el stock
	EventID  *string
	AnimalID *string
	PlotID   *string

	// Metadatos comerciales (entradas)
	Invoice         string
	Supplier        string
	UnitPrice       *decimal.Decimal
	Lot             string
	ManufactureDate *time.Time
	ExpiryDate      *time.Time

	Reason    string
	Notes     string
	CreatedBy string
	CreatedAt time.Time
}

// MovementMeta datos opcionales que acompañan a un crédito, débito o ajuste.
type MovementMeta struct {
	Category        Category // si no está vacío, el producto debe pertenecer a esta categoría
	Origin          string
	EventID         *string
	AnimalID        *string
	PlotID          *string
	Invoice         string
	Supplier        string
	UnitPrice       *decimal.Decimal
	Lot             string
	ManufactureDate *time.Time
	ExpiryDate      *time.Time
	Reason          string
	Notes           string
	UserID          string
}
