package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento de consumo (derivados de la categoría del producto).
const (
	ConsumptionHealthApplication = "HEALTH_APPLICATION" // aplicación sanitaria a un animal
	ConsumptionFeedSupply        = "FEED_SUPPLY"        // suministro de ración
	ConsumptionLandTreatment     = "LAND_TREATMENT"     // aplicación sobre un lote de terreno
)

// ConsumptionEvent registra el uso de un producto. Mientras exista tiene exactamente una salida
// (EXIT) vinculada por EventID que no ha sido revertida.
type ConsumptionEvent struct {
	ID                     string
	Kind                   string
	ProductID              string
	Quantity               decimal.Decimal
	AnimalID               *string
	PlotID                 *string
	EventDate              *time.Time
	WithdrawalDaysOverride *int // carencia propia del evento; prevalece sobre la del producto
	LiberationDate         *time.Time
	Notes                  string
	CreatedBy              string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PlotBlock describe por qué un lote no puede recibir animales todavía.
type PlotBlock struct {
	PlotID         string
	LiberationDate time.Time
	EventID        string
	EventKind      string
	EventDate      *time.Time
	ProductID      string
	ProductName    string
}
