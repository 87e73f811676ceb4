package inventory

import "github.com/shopspring/decimal"

// WeightedUnitPrice implementa el precio unitario promedio ponderado tras una entrada (servicio de dominio).
// NuevoPrecio = ((SaldoActual * PrecioActual) + (CantEntrada * PrecioEntrada)) / (SaldoActual + CantEntrada)
// Si el producto aún no tiene precio, el precio de la entrada se toma tal cual.
func WeightedUnitPrice(saldoActual decimal.Decimal, precioActual *decimal.Decimal, cantEntrada, precioEntrada decimal.Decimal) decimal.Decimal {
	if precioActual == nil || saldoActual.LessThanOrEqual(decimal.Zero) {
		return precioEntrada
	}
	sum := saldoActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := saldoActual.Mul(*precioActual).Add(cantEntrada.Mul(precioEntrada))
	return num.Div(sum).Round(4)
}
