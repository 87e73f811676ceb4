package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

var _ repository.ConsumptionEventRepository = (*ConsumptionEventRepo)(nil)

const eventColumns = `id, kind, product_id, quantity, animal_id, plot_id, event_date, withdrawal_days,
	liberation_date, notes, created_by, created_at, updated_at`

// ConsumptionEventRepo eventos de consumo sobre PostgreSQL (usable con pool o tx).
type ConsumptionEventRepo struct {
	q Querier
}

// NewConsumptionEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionEventRepository(q Querier) *ConsumptionEventRepo {
	return &ConsumptionEventRepo{q: q}
}

func scanEvent(row rowScanner) (*entity.ConsumptionEvent, error) {
	var ev entity.ConsumptionEvent
	err := row.Scan(
		&ev.ID, &ev.Kind, &ev.ProductID, &ev.Quantity, &ev.AnimalID, &ev.PlotID, &ev.EventDate, &ev.WithdrawalDaysOverride,
		&ev.LiberationDate, &ev.Notes, &ev.CreatedBy, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Create persiste un evento.
func (r *ConsumptionEventRepo) Create(ctx context.Context, ev *entity.ConsumptionEvent) error {
	query := `INSERT INTO consumption_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		ev.ID, ev.Kind, ev.ProductID, ev.Quantity, ev.AnimalID, ev.PlotID, ev.EventDate, ev.WithdrawalDaysOverride,
		ev.LiberationDate, ev.Notes, ev.CreatedBy, ev.CreatedAt, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create consumption event: %w", err)
	}
	return nil
}

// GetByID obtiene un evento por ID.
func (r *ConsumptionEventRepo) GetByID(ctx context.Context, id string) (*entity.ConsumptionEvent, error) {
	if !isUUID(id) {
		return nil, nil
	}
	ev, err := scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM consumption_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get consumption event: %w", err)
	}
	return ev, nil
}

// GetForUpdate obtiene el evento bloqueando la fila.
func (r *ConsumptionEventRepo) GetForUpdate(ctx context.Context, id string) (*entity.ConsumptionEvent, error) {
	if !isUUID(id) {
		return nil, nil
	}
	ev, err := scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM consumption_events WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock consumption event: %w", err)
	}
	return ev, nil
}

// Update reemplaza los campos editables del evento.
func (r *ConsumptionEventRepo) Update(ctx context.Context, ev *entity.ConsumptionEvent) error {
	query := `
		UPDATE consumption_events SET kind = $2, product_id = $3, quantity = $4, animal_id = $5, plot_id = $6,
			event_date = $7, withdrawal_days = $8, liberation_date = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		ev.ID, ev.Kind, ev.ProductID, ev.Quantity, ev.AnimalID, ev.PlotID,
		ev.EventDate, ev.WithdrawalDaysOverride, ev.LiberationDate, ev.Notes, ev.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update consumption event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// Delete elimina el evento. Sus movimientos permanecen en el libro.
func (r *ConsumptionEventRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM consumption_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete consumption event: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// ListQuarantinesByPlot eventos del lote cuya liberación es posterior a now, la más lejana primero.
func (r *ConsumptionEventRepo) ListQuarantinesByPlot(ctx context.Context, plotID string, now time.Time) ([]*entity.ConsumptionEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM consumption_events
		WHERE plot_id = $1 AND liberation_date IS NOT NULL AND liberation_date > $2::date
		ORDER BY liberation_date DESC, id`
	return r.queryEvents(ctx, query, plotID, now.UTC())
}

// ListReleasingBetween eventos cuya liberación cae en (from, to].
func (r *ConsumptionEventRepo) ListReleasingBetween(ctx context.Context, from, to time.Time) ([]*entity.ConsumptionEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM consumption_events
		WHERE plot_id IS NOT NULL AND liberation_date > $1::date AND liberation_date <= $2::date
		ORDER BY liberation_date, plot_id, id`
	return r.queryEvents(ctx, query, from.UTC(), to.UTC())
}

func (r *ConsumptionEventRepo) queryEvents(ctx context.Context, query string, args ...any) ([]*entity.ConsumptionEvent, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consumption events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ConsumptionEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consumption event: %w", err)
		}
		list = append(list, ev)
	}
	return list, rows.Err()
}
