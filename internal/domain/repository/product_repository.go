package repository

import (
	"context"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
)

// ProductFilter filtros de listado del catálogo.
type ProductFilter struct {
	Category           entity.Category
	NameContains       string
	Active             *bool
	LowStockOnly       bool
	ExpiringWithinDays *int
	Limit              int
	Offset             int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// FindActiveByNameKey busca un producto activo de la categoría con la misma clave de nombre.
	FindActiveByNameKey(ctx context.Context, category entity.Category, nameKey string) (*entity.Product, error)
	// Update persiste los datos de catálogo; no toca el saldo.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock persiste saldo, precio, lote y vencimiento (usado solo por el motor de stock).
	UpdateStock(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	ListActiveByCategory(ctx context.Context, category entity.Category) ([]*entity.Product, error)
}
