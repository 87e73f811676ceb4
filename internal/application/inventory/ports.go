package inventory

import (
	"context"

	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todas las escrituras; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		eventRepo repository.ConsumptionEventRepository,
	) error) error
}
