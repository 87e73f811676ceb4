package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")

	// Catálogo de productos
	ErrDuplicateName   = errors.New("ya existe un producto activo con ese nombre en la categoría")
	ErrInvalidRange    = errors.New("el stock máximo debe ser mayor que el umbral de reposición")
	ErrUnitLocked      = errors.New("no se puede cambiar la unidad de medida de un producto con movimientos")
	ErrProductNotFound = errors.New("producto no encontrado")
	ErrProductInactive = errors.New("producto inactivo")

	// Motor de stock
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Eventos de consumo
	ErrEventNotFound = errors.New("evento de consumo no encontrado")
)
