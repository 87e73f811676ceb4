package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, category, kind, origin, quantity, balance_before, balance_after,
	event_id, animal_id, plot_id, invoice, supplier, unit_price, lot, manufacture_date, expiry_date,
	reason, notes, created_by, created_at`

// StockMovementRepo libro de movimientos sobre PostgreSQL. Solo inserción y lectura.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

func scanMovement(row rowScanner) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var category string
	err := row.Scan(
		&m.ID, &m.ProductID, &category, &m.Kind, &m.Origin, &m.Quantity, &m.BalanceBefore, &m.BalanceAfter,
		&m.EventID, &m.AnimalID, &m.PlotID, &m.Invoice, &m.Supplier, &m.UnitPrice, &m.Lot, &m.ManufactureDate, &m.ExpiryDate,
		&m.Reason, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Category = entity.Category(category)
	return &m, nil
}

// Create inserta el movimiento con sus saldos antes/después ya calculados.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, string(m.Category), m.Kind, m.Origin, m.Quantity, m.BalanceBefore, m.BalanceAfter,
		m.EventID, m.AnimalID, m.PlotID, m.Invoice, m.Supplier, m.UnitPrice, m.Lot, m.ManufactureDate, m.ExpiryDate,
		m.Reason, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidQuantity
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List consulta el libro con filtros, del más reciente al más antiguo.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var where []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", string(f.Category))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.AnimalID != "" {
		add("animal_id = $%d", f.AnimalID)
	}
	if f.PlotID != "" {
		add("plot_id = $%d", f.PlotID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}

	query := `SELECT ` + movementColumns + ` FROM stock_movements`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// CountByProduct número de movimientos del producto.
func (r *StockMovementRepo) CountByProduct(ctx context.Context, productID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// ConsumptionSince suma por producto las salidas y las reversiones de la categoría desde since.
func (r *StockMovementRepo) ConsumptionSince(ctx context.Context, category entity.Category, since time.Time) ([]repository.ConsumptionTotals, error) {
	query := `
		SELECT product_id,
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'EXIT'), 0),
			COALESCE(SUM(quantity) FILTER (WHERE kind = 'ENTRY' AND origin = 'REVERSAL'), 0)
		FROM stock_movements
		WHERE category = $1 AND created_at >= $2
		GROUP BY product_id`
	rows, err := r.q.Query(ctx, query, string(category), since)
	if err != nil {
		return nil, fmt.Errorf("consumption since: %w", err)
	}
	defer rows.Close()
	var out []repository.ConsumptionTotals
	for rows.Next() {
		var t repository.ConsumptionTotals
		if err := rows.Scan(&t.ProductID, &t.Exits, &t.Reversals); err != nil {
			return nil, fmt.Errorf("scan consumption: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Summarize totales de entradas y salidas por producto en [from, to].
func (r *StockMovementRepo) Summarize(ctx context.Context, category entity.Category, from, to time.Time) ([]repository.MovementSummary, error) {
	query := `
		SELECT p.id, p.name, p.unit_measure, p.current_balance,
			COALESCE(SUM(m.quantity) FILTER (WHERE m.kind = 'ENTRY'), 0),
			COALESCE(SUM(m.quantity) FILTER (WHERE m.kind = 'EXIT'), 0),
			COALESCE(SUM(m.quantity * COALESCE(m.unit_price, 0)) FILTER (WHERE m.kind = 'ENTRY'), 0),
			COUNT(m.id),
			MAX(m.created_at)
		FROM products p
		JOIN stock_movements m ON m.product_id = p.id AND m.created_at BETWEEN $2 AND $3
		WHERE p.category = $1
		GROUP BY p.id, p.name, p.unit_measure, p.current_balance
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, string(category), from, to)
	if err != nil {
		return nil, fmt.Errorf("summarize movements: %w", err)
	}
	defer rows.Close()
	var out []repository.MovementSummary
	for rows.Next() {
		var s repository.MovementSummary
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.UnitMeasure, &s.CurrentBalance,
			&s.TotalEntries, &s.TotalExits, &s.EntryValue, &s.Movements, &s.LastMovementAt); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ConsumptionByAnimal salidas y reversiones del animal por producto, con el precio vigente del producto.
func (r *StockMovementRepo) ConsumptionByAnimal(ctx context.Context, category entity.Category, animalID string, from, to *time.Time) ([]repository.AnimalConsumptionTotals, error) {
	query := `
		SELECT p.id, p.name, p.unit_measure, p.unit_price,
			COALESCE(SUM(m.quantity) FILTER (WHERE m.kind = 'EXIT'), 0),
			COALESCE(SUM(m.quantity) FILTER (WHERE m.kind = 'ENTRY' AND m.origin = 'REVERSAL'), 0),
			COUNT(*) FILTER (WHERE m.kind = 'EXIT'),
			COUNT(*) FILTER (WHERE m.kind = 'ENTRY' AND m.origin = 'REVERSAL'),
			MAX(m.created_at) FILTER (WHERE m.kind = 'EXIT')
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id
		WHERE m.category = $1 AND m.animal_id = $2
			AND ($3::timestamptz IS NULL OR m.created_at >= $3)
			AND ($4::timestamptz IS NULL OR m.created_at <= $4)
		GROUP BY p.id, p.name, p.unit_measure, p.unit_price
		ORDER BY p.name`
	rows, err := r.q.Query(ctx, query, string(category), animalID, from, to)
	if err != nil {
		return nil, fmt.Errorf("consumption by animal: %w", err)
	}
	defer rows.Close()
	var out []repository.AnimalConsumptionTotals
	for rows.Next() {
		var t repository.AnimalConsumptionTotals
		if err := rows.Scan(&t.ProductID, &t.ProductName, &t.UnitMeasure, &t.UnitPrice,
			&t.Exits, &t.Reversals, &t.ExitCount, &t.ReversalCount, &t.LastExitAt); err != nil {
			return nil, fmt.Errorf("scan animal consumption: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
