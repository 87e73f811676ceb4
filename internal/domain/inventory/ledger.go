package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// NextBalance calcula el saldo posterior a un movimiento.
// ENTRY suma, EXIT resta y ADJUSTMENT fija el saldo al valor absoluto indicado.
func NextBalance(kind string, before, quantity decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case entity.MovementEntry:
		return before.Add(quantity), nil
	case entity.MovementExit:
		return before.Sub(quantity), nil
	case entity.MovementAdjustment:
		return quantity, nil
	}
	return decimal.Zero, domain.ErrInvalidInput
}

// SignedEffect devuelve el efecto neto de un movimiento sobre el saldo.
func SignedEffect(m *entity.StockMovement) decimal.Decimal {
	return m.BalanceAfter.Sub(m.BalanceBefore)
}

// ReplayBalance reconstruye el saldo de un producto sumando los efectos de su historial.
func ReplayBalance(movements []*entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(SignedEffect(m))
	}
	return total
}

// Las columnas de cantidad son NUMERIC(18,4): hasta 14 dígitos enteros y 4 decimales.
const quantityScale = 4

var maxQuantity = decimal.New(1, 14)

// FitsScale indica si q se puede guardar sin redondeo en una columna NUMERIC(18,4).
func FitsScale(q decimal.Decimal) bool {
	if !q.Equal(q.Truncate(quantityScale)) {
		return false
	}
	return q.Abs().LessThan(maxQuantity)
}
