// Package testutil ofrece un almacén en memoria con semántica transaccional para los tests
// de casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-pecuario/internal/application/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/entity"
	domaininv "github.com/jhoicas/Inventario-pecuario/internal/domain/inventory"
	"github.com/jhoicas/Inventario-pecuario/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	events    map[string]*entity.ConsumptionEvent
}

func newState() *state {
	return &state{
		products: make(map[string]*entity.Product),
		events:   make(map[string]*entity.ConsumptionEvent),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, ev := range s.events {
		cp := *ev
		c.events[id] = &cp
	}
	c.movements = make([]*entity.StockMovement, len(s.movements))
	copy(c.movements, s.movements)
	return c
}

// Store almacén en memoria. Las transacciones se serializan y trabajan sobre una copia
// que solo se publica si fn no devuelve error.
type Store struct {
	txMu  sync.Mutex
	mu    sync.Mutex
	state *state
	Clock func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{state: newState(), Clock: time.Now}
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	eventRepo repository.ConsumptionEventRepository,
) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	tx := s.state.clone()
	s.mu.Unlock()

	if err := fn(&productRepo{s: s, tx: tx}, &movementRepo{s: s, tx: tx}, &eventRepo{s: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.state = tx
	s.mu.Unlock()
	return nil
}

// Products repositorio fuera de transacción.
func (s *Store) Products() repository.ProductRepository { return &productRepo{s: s} }

// Movements repositorio fuera de transacción.
func (s *Store) Movements() repository.StockMovementRepository { return &movementRepo{s: s} }

// Events repositorio fuera de transacción.
func (s *Store) Events() repository.ConsumptionEventRepository { return &eventRepo{s: s} }

// SeedProduct inserta un producto tal cual, sin movimiento de apertura.
func (s *Store) SeedProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	if cp.NameKey == "" {
		cp.NameKey = domaininv.NameKey(cp.Name)
	}
	s.state.products[cp.ID] = &cp
}

// Product copia del producto confirmado (nil si no existe).
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.products[id]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// Balance saldo confirmado del producto.
func (s *Store) Balance(id string) decimal.Decimal {
	if p := s.Product(id); p != nil {
		return p.CurrentBalance
	}
	return decimal.Zero
}

// MovementsOf movimientos confirmados del producto en orden de inserción.
func (s *Store) MovementsOf(productID string) []*entity.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.StockMovement
	for _, m := range s.state.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

// EventCount número de eventos confirmados.
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.events)
}

func (s *Store) view(tx *state, fn func(st *state)) {
	if tx != nil {
		fn(tx)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// ── Productos ──

type productRepo struct {
	s  *Store
	tx *state
}

func duplicateActive(st *state, p *entity.Product) bool {
	if !p.Active {
		return false
	}
	for _, other := range st.products {
		if other.ID != p.ID && other.Active && other.Category == p.Category && other.NameKey == p.NameKey {
			return true
		}
	}
	return false
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	var err error
	r.s.view(r.tx, func(st *state) {
		if duplicateActive(st, p) {
			err = domain.ErrDuplicateName
			return
		}
		cp := *p
		st.products[p.ID] = &cp
	})
	return err
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.view(r.tx, func(st *state) {
		if p, ok := st.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) FindActiveByNameKey(_ context.Context, category entity.Category, nameKey string) (*entity.Product, error) {
	var out *entity.Product
	r.s.view(r.tx, func(st *state) {
		for _, p := range st.products {
			if p.Active && p.Category == category && p.NameKey == nameKey {
				cp := *p
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	var err error
	r.s.view(r.tx, func(st *state) {
		cur, ok := st.products[p.ID]
		if !ok {
			err = domain.ErrProductNotFound
			return
		}
		if duplicateActive(st, p) {
			err = domain.ErrDuplicateName
			return
		}
		balance := cur.CurrentBalance
		cp := *p
		cp.CurrentBalance = balance
		st.products[p.ID] = &cp
	})
	return err
}

func (r *productRepo) UpdateStock(_ context.Context, p *entity.Product) error {
	var err error
	r.s.view(r.tx, func(st *state) {
		cur, ok := st.products[p.ID]
		if !ok {
			err = domain.ErrProductNotFound
			return
		}
		if p.CurrentBalance.IsNegative() {
			err = domain.ErrInsufficientStock
			return
		}
		cur.CurrentBalance = p.CurrentBalance
		cur.UnitPrice = p.UnitPrice
		cur.Lot = p.Lot
		cur.Supplier = p.Supplier
		cur.ExpiryDate = p.ExpiryDate
		cur.UpdatedAt = p.UpdatedAt
	})
	return err
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	today := domaininv.DateOnly(r.s.Clock())
	var list []*entity.Product
	r.s.view(r.tx, func(st *state) {
		for _, p := range st.products {
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if f.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameContains)) {
				continue
			}
			if f.Active != nil && p.Active != *f.Active {
				continue
			}
			if f.LowStockOnly && p.CurrentBalance.GreaterThan(p.ReorderThreshold) {
				continue
			}
			if f.ExpiringWithinDays != nil {
				if p.ExpiryDate == nil || domaininv.DateOnly(*p.ExpiryDate).After(today.AddDate(0, 0, *f.ExpiringWithinDays)) {
					continue
				}
			}
			cp := *p
			list = append(list, &cp)
		}
	})
	sortProducts(list)
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *productRepo) ListActiveByCategory(_ context.Context, category entity.Category) ([]*entity.Product, error) {
	var list []*entity.Product
	r.s.view(r.tx, func(st *state) {
		for _, p := range st.products {
			if p.Active && p.Category == category {
				cp := *p
				list = append(list, &cp)
			}
		}
	})
	sortProducts(list)
	return list, nil
}

func sortProducts(list []*entity.Product) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ── Movimientos ──

type movementRepo struct {
	s  *Store
	tx *state
}

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	after, err := domaininv.NextBalance(m.Kind, m.BalanceBefore, m.Quantity)
	if err != nil {
		return err
	}
	if !after.Equal(m.BalanceAfter) || after.IsNegative() {
		return domain.ErrInsufficientStock
	}
	r.s.view(r.tx, func(st *state) {
		cp := *m
		st.movements = append(st.movements, &cp)
	})
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.ID == id {
				cp := *m
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *movementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			switch {
			case f.Category != "" && m.Category != f.Category,
				f.ProductID != "" && m.ProductID != f.ProductID,
				f.Kind != "" && m.Kind != f.Kind,
				f.AnimalID != "" && (m.AnimalID == nil || *m.AnimalID != f.AnimalID),
				f.PlotID != "" && (m.PlotID == nil || *m.PlotID != f.PlotID),
				f.From != nil && m.CreatedAt.Before(*f.From),
				f.To != nil && m.CreatedAt.After(*f.To):
				continue
			}
			cp := *m
			list = append(list, &cp)
		}
	})
	// más reciente primero; a igual fecha, el último insertado primero
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return paginate(list, f.Limit, f.Offset), nil
}

func (r *movementRepo) CountByProduct(_ context.Context, productID string) (int, error) {
	n := 0
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.ProductID == productID {
				n++
			}
		}
	})
	return n, nil
}

func (r *movementRepo) ConsumptionSince(_ context.Context, category entity.Category, since time.Time) ([]repository.ConsumptionTotals, error) {
	totals := make(map[string]*repository.ConsumptionTotals)
	var order []string
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.Category != category || m.CreatedAt.Before(since) {
				continue
			}
			t, ok := totals[m.ProductID]
			if !ok {
				t = &repository.ConsumptionTotals{ProductID: m.ProductID, Exits: decimal.Zero, Reversals: decimal.Zero}
				totals[m.ProductID] = t
				order = append(order, m.ProductID)
			}
			switch {
			case m.Kind == entity.MovementExit:
				t.Exits = t.Exits.Add(m.Quantity)
			case m.Kind == entity.MovementEntry && m.Origin == entity.OriginReversal:
				t.Reversals = t.Reversals.Add(m.Quantity)
			}
		}
	})
	out := make([]repository.ConsumptionTotals, 0, len(order))
	for _, id := range order {
		out = append(out, *totals[id])
	}
	return out, nil
}

func (r *movementRepo) Summarize(_ context.Context, category entity.Category, from, to time.Time) ([]repository.MovementSummary, error) {
	byProduct := make(map[string]*repository.MovementSummary)
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			p, ok := st.products[m.ProductID]
			if !ok || p.Category != category || m.CreatedAt.Before(from) || m.CreatedAt.After(to) {
				continue
			}
			s, ok := byProduct[p.ID]
			if !ok {
				s = &repository.MovementSummary{
					ProductID:      p.ID,
					ProductName:    p.Name,
					UnitMeasure:    p.UnitMeasure,
					CurrentBalance: p.CurrentBalance,
					TotalEntries:   decimal.Zero,
					TotalExits:     decimal.Zero,
					EntryValue:     decimal.Zero,
				}
				byProduct[p.ID] = s
			}
			switch m.Kind {
			case entity.MovementEntry:
				s.TotalEntries = s.TotalEntries.Add(m.Quantity)
				if m.UnitPrice != nil {
					s.EntryValue = s.EntryValue.Add(m.Quantity.Mul(*m.UnitPrice))
				}
			case entity.MovementExit:
				s.TotalExits = s.TotalExits.Add(m.Quantity)
			}
			s.Movements++
			at := m.CreatedAt
			if s.LastMovementAt == nil || at.After(*s.LastMovementAt) {
				s.LastMovementAt = &at
			}
		}
	})
	out := make([]repository.MovementSummary, 0, len(byProduct))
	for _, s := range byProduct {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (r *movementRepo) ConsumptionByAnimal(_ context.Context, category entity.Category, animalID string, from, to *time.Time) ([]repository.AnimalConsumptionTotals, error) {
	byProduct := make(map[string]*repository.AnimalConsumptionTotals)
	r.s.view(r.tx, func(st *state) {
		for _, m := range st.movements {
			if m.Category != category || m.AnimalID == nil || *m.AnimalID != animalID {
				continue
			}
			if (from != nil && m.CreatedAt.Before(*from)) || (to != nil && m.CreatedAt.After(*to)) {
				continue
			}
			p, ok := st.products[m.ProductID]
			if !ok {
				continue
			}
			t, ok := byProduct[p.ID]
			if !ok {
				t = &repository.AnimalConsumptionTotals{
					ProductID:   p.ID,
					ProductName: p.Name,
					UnitMeasure: p.UnitMeasure,
					UnitPrice:   p.UnitPrice,
					Exits:       decimal.Zero,
					Reversals:   decimal.Zero,
				}
				byProduct[p.ID] = t
			}
			switch {
			case m.Kind == entity.MovementExit:
				t.Exits = t.Exits.Add(m.Quantity)
				t.ExitCount++
				at := m.CreatedAt
				if t.LastExitAt == nil || at.After(*t.LastExitAt) {
					t.LastExitAt = &at
				}
			case m.Kind == entity.MovementEntry && m.Origin == entity.OriginReversal:
				t.Reversals = t.Reversals.Add(m.Quantity)
				t.ReversalCount++
			}
		}
	})
	out := make([]repository.AnimalConsumptionTotals, 0, len(byProduct))
	for _, t := range byProduct {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

// ── Eventos ──

type eventRepo struct {
	s  *Store
	tx *state
}

func (r *eventRepo) Create(_ context.Context, ev *entity.ConsumptionEvent) error {
	r.s.view(r.tx, func(st *state) {
		cp := *ev
		st.events[ev.ID] = &cp
	})
	return nil
}

func (r *eventRepo) GetByID(_ context.Context, id string) (*entity.ConsumptionEvent, error) {
	var out *entity.ConsumptionEvent
	r.s.view(r.tx, func(st *state) {
		if ev, ok := st.events[id]; ok {
			cp := *ev
			out = &cp
		}
	})
	return out, nil
}

func (r *eventRepo) GetForUpdate(ctx context.Context, id string) (*entity.ConsumptionEvent, error) {
	return r.GetByID(ctx, id)
}

func (r *eventRepo) Update(_ context.Context, ev *entity.ConsumptionEvent) error {
	var err error
	r.s.view(r.tx, func(st *state) {
		if _, ok := st.events[ev.ID]; !ok {
			err = domain.ErrEventNotFound
			return
		}
		cp := *ev
		st.events[ev.ID] = &cp
	})
	return err
}

func (r *eventRepo) Delete(_ context.Context, id string) error {
	var err error
	r.s.view(r.tx, func(st *state) {
		if _, ok := st.events[id]; !ok {
			err = domain.ErrEventNotFound
			return
		}
		delete(st.events, id)
	})
	return err
}

func (r *eventRepo) ListQuarantinesByPlot(_ context.Context, plotID string, now time.Time) ([]*entity.ConsumptionEvent, error) {
	today := domaininv.DateOnly(now)
	var list []*entity.ConsumptionEvent
	r.s.view(r.tx, func(st *state) {
		for _, ev := range st.events {
			if ev.PlotID == nil || *ev.PlotID != plotID || ev.LiberationDate == nil {
				continue
			}
			if domaininv.DateOnly(*ev.LiberationDate).After(today) {
				cp := *ev
				list = append(list, &cp)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LiberationDate.Equal(*list[j].LiberationDate) {
			return list[i].LiberationDate.After(*list[j].LiberationDate)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *eventRepo) ListReleasingBetween(_ context.Context, from, to time.Time) ([]*entity.ConsumptionEvent, error) {
	lo, hi := domaininv.DateOnly(from), domaininv.DateOnly(to)
	var list []*entity.ConsumptionEvent
	r.s.view(r.tx, func(st *state) {
		for _, ev := range st.events {
			if ev.PlotID == nil || ev.LiberationDate == nil {
				continue
			}
			d := domaininv.DateOnly(*ev.LiberationDate)
			if d.After(lo) && !d.After(hi) {
				cp := *ev
				list = append(list, &cp)
			}
		}
	})
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LiberationDate.Equal(*list[j].LiberationDate) {
			return list[i].LiberationDate.Before(*list[j].LiberationDate)
		}
		if *list[i].PlotID != *list[j].PlotID {
			return *list[i].PlotID < *list[j].PlotID
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}
