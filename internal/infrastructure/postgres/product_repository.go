package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, category, name, name_key, unit_measure, current_balance, reorder_threshold, max_balance,
	expiry_date, withdrawal_period_days, unit_price, lot, supplier, active, created_by, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	var category string
	err := row.Scan(
		&p.ID, &category, &p.Name, &p.NameKey, &p.UnitMeasure, &p.CurrentBalance, &p.ReorderThreshold, &p.MaxBalance,
		&p.ExpiryDate, &p.WithdrawalPeriodDays, &p.UnitPrice, &p.Lot, &p.Supplier, &p.Active, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = entity.Category(category)
	return &p, nil
}

// Create persiste un nuevo producto. El índice parcial sobre (category, name_key) rechaza duplicados activos.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		p.ID, string(p.Category), p.Name, p.NameKey, p.UnitMeasure, p.CurrentBalance, p.ReorderThreshold, p.MaxBalance,
		p.ExpiryDate, p.WithdrawalPeriodDays, p.UnitPrice, p.Lot, p.Supplier, p.Active, p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidRange
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	if !isUUID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}
	return p, nil
}

// FindActiveByNameKey busca un producto activo con la misma clave de nombre en la categoría.
func (r *ProductRepo) FindActiveByNameKey(ctx context.Context, category entity.Category, nameKey string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 AND name_key = $2 AND active LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, string(category), nameKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product by name: %w", err)
	}
	return p, nil
}

// Update actualiza los datos de catálogo. El saldo no se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, name_key = $3, unit_measure = $4, reorder_threshold = $5, max_balance = $6,
			expiry_date = $7, withdrawal_period_days = $8, unit_price = $9, lot = $10, supplier = $11, active = $12, updated_at = $13
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.NameKey, p.UnitMeasure, p.ReorderThreshold, p.MaxBalance,
		p.ExpiryDate, p.WithdrawalPeriodDays, p.UnitPrice, p.Lot, p.Supplier, p.Active, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateName
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidRange
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdateStock persiste saldo, precio unitario, lote, proveedor y vencimiento (motor de stock).
func (r *ProductRepo) UpdateStock(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET current_balance = $2, unit_price = $3, lot = $4, supplier = $5, expiry_date = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, p.ID, p.CurrentBalance, p.UnitPrice, p.Lot, p.Supplier, p.ExpiryDate, p.UpdatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List lista productos con filtros opcionales, ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var where []string
	var args []any
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", string(f.Category))
	}
	if f.NameContains != "" {
		add("name ILIKE '%%' || $%d || '%%'", f.NameContains)
	}
	if f.Active != nil {
		add("active = $%d", *f.Active)
	}
	if f.LowStockOnly {
		where = append(where, "current_balance <= reorder_threshold")
	}
	if f.ExpiringWithinDays != nil {
		add("expiry_date IS NOT NULL AND expiry_date <= CURRENT_DATE + $%d::int", *f.ExpiringWithinDays)
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return r.queryProducts(ctx, query, args...)
}

// ListActiveByCategory todos los productos activos de la categoría.
func (r *ProductRepo) ListActiveByCategory(ctx context.Context, category entity.Category) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category = $1 AND active ORDER BY name, id`
	return r.queryProducts(ctx, query, string(category))
}

func (r *ProductRepo) queryProducts(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
