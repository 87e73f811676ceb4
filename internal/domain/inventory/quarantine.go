package inventory

import (
	"time"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// WithdrawalDays resuelve la carencia aplicable a un evento: la del evento prevalece sobre la del producto.
func WithdrawalDays(override *int, product *entity.Product) *int {
	if override != nil {
		return override
	}
	if product != nil {
		return product.WithdrawalPeriodDays
	}
	return nil
}

// ComputeLiberationDate fecha del evento + días de carencia. Sin alguno de los dos no hay cuarentena.
func ComputeLiberationDate(eventDate *time.Time, withdrawalDays *int) *time.Time {
	if eventDate == nil || withdrawalDays == nil {
		return nil
	}
	d := DateOnly(*eventDate).AddDate(0, 0, *withdrawalDays)
	return &d
}

// LatestBlock elige, entre los eventos de un lote, el de liberación más tardía posterior a now.
// Devuelve nil si ninguno mantiene el lote bloqueado.
func LatestBlock(events []*entity.ConsumptionEvent, now time.Time) *entity.ConsumptionEvent {
	var worst *entity.ConsumptionEvent
	for _, ev := range events {
		if ev == nil || ev.LiberationDate == nil || !ev.LiberationDate.After(now) {
			continue
		}
		if worst == nil || ev.LiberationDate.After(*worst.LiberationDate) {
			worst = ev
		}
	}
	return worst
}
