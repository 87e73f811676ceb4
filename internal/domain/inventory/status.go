package inventory

import (
	"sort"
	"time"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// StockStatus clasificación de un producto según saldo y vencimiento.
type StockStatus string

const (
	StatusOK           StockStatus = "OK"
	StatusLowStock     StockStatus = "LOW_STOCK"
	StatusExpiringSoon StockStatus = "EXPIRING_SOON"
	StatusExpired      StockStatus = "EXPIRED"
	StatusOutOfStock   StockStatus = "OUT_OF_STOCK"
)

// severity menor = más grave.
func severity(s StockStatus) int {
	switch s {
	case StatusOutOfStock:
		return 0
	case StatusExpired:
		return 1
	case StatusLowStock:
		return 2
	case StatusExpiringSoon:
		return 3
	}
	return 4
}

// ClassifyStatus devuelve una única etiqueta con precedencia fija:
// OUT_OF_STOCK > EXPIRED > LOW_STOCK > EXPIRING_SOON > OK.
func ClassifyStatus(p *entity.Product, now time.Time, horizonDays int) StockStatus {
	if p.CurrentBalance.Sign() <= 0 {
		return StatusOutOfStock
	}
	today := DateOnly(now)
	if p.ExpiryDate != nil && !DateOnly(*p.ExpiryDate).After(today) {
		return StatusExpired
	}
	if p.CurrentBalance.LessThanOrEqual(p.ReorderThreshold) {
		return StatusLowStock
	}
	if p.ExpiryDate != nil && !DateOnly(*p.ExpiryDate).After(today.AddDate(0, 0, horizonDays)) {
		return StatusExpiringSoon
	}
	return StatusOK
}

// DaysToExpiry días de calendario hasta el vencimiento (negativo si ya venció). nil si no hay fecha.
func DaysToExpiry(p *entity.Product, now time.Time) *int {
	if p.ExpiryDate == nil {
		return nil
	}
	d := int(DateOnly(*p.ExpiryDate).Sub(DateOnly(now)).Hours() / 24)
	return &d
}

// Alert producto que requiere atención.
type Alert struct {
	Product      *entity.Product
	Status       StockStatus
	DaysToExpiry *int
}

// StockAlerts emite una alerta por cada producto activo cuyo estado no sea OK,
// ordenadas por gravedad y luego por saldo ascendente.
func StockAlerts(products []*entity.Product, now time.Time, horizonDays int) []Alert {
	alerts := make([]Alert, 0)
	for _, p := range products {
		if p == nil || !p.Active {
			continue
		}
		st := ClassifyStatus(p, now, horizonDays)
		if st == StatusOK {
			continue
		}
		alerts = append(alerts, Alert{Product: p, Status: st, DaysToExpiry: DaysToExpiry(p, now)})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		si, sj := severity(alerts[i].Status), severity(alerts[j].Status)
		if si != sj {
			return si < sj
		}
		return alerts[i].Product.CurrentBalance.LessThan(alerts[j].Product.CurrentBalance)
	})
	return alerts
}

// DateOnly devuelve la medianoche del día de calendario UTC de t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
