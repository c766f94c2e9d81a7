package crafting

import (
	"fmt"
	"io"
	"log"
)

// Option configures session construction.
type Option func(*Session)

// WithGridSize overrides the grid dimension (DefaultGridSize otherwise).
func WithGridSize(n int) Option {
	return func(s *Session) {
		s.size = n
	}
}

// WithEventBus attaches a bus that receives every session event.
func WithEventBus(bus EventBus) Option {
	return func(s *Session) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the logger used for transaction and near-miss lines.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConsumption makes placements cost a dot only with the given
// probability. A placement that rolls free still needs a dot in the pool
// but does not spend it; taking such a dot back, or having it refunded,
// returns nothing. A nil roller falls back to a roller seeded with 1.
func WithConsumption(chance float64, roller Roller) Option {
	return func(s *Session) {
		s.chance = clampChance(chance)
		if roller == nil {
			roller = NewSeededRoller(1)
		}
		s.roller = roller
	}
}

// Session ties a pool, a grid and a catalog together behind the toggle and
// confirm operations. It is a plain state object: every call runs to
// completion before returning and nothing runs in the background.
type Session struct {
	size    int
	grid    *Grid
	pool    *Pool
	catalog *Catalog
	matcher Matcher
	bus     EventBus
	logger  *log.Logger

	chance float64
	roller Roller
	// waived holds occupied cells whose placement did not cost a dot.
	waived map[Point]struct{}
}

// NewSession creates a session with an empty grid and initialDots in the pool.
func NewSession(catalog *Catalog, initialDots int, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	s := &Session{
		size:    DefaultGridSize,
		catalog: catalog,
		bus:     NullEventBus{},
		logger:  log.New(io.Discard, "", 0),
		chance:  1,
		waived:  make(map[Point]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	grid, err := NewGrid(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}
	pool, err := NewPool(initialDots)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	s.grid = grid
	s.pool = pool
	s.matcher.OnNearMiss = s.reportNearMiss
	return s, nil
}

// ToggleCell places a dot on an empty cell or takes one back from an
// occupied cell. It reports whether the grid changed. Out-of-range cells
// and placements with an empty pool leave the session untouched.
func (s *Session) ToggleCell(x, y int) bool {
	if !s.grid.InBounds(x, y) {
		return false
	}
	cell := Point{X: x, Y: y}

	if s.grid.Get(x, y) {
		if _, free := s.waived[cell]; free {
			delete(s.waived, cell)
		} else {
			s.pool.Deposit(1)
		}
		s.grid.Set(x, y, false)
		s.logger.Printf("took back dot at %s, pool %d", cell, s.pool.Count())
		s.publish(Event{Type: EventCellCleared, Cell: cell})
		return true
	}

	if s.pool.Count() == 0 {
		s.logger.Printf("not enough dots to place at %s", cell)
		s.publish(Event{Type: EventPlacementRejected, Cell: cell})
		return false
	}
	if s.consumes() {
		s.pool.Withdraw()
	} else {
		s.waived[cell] = struct{}{}
	}
	s.grid.Set(x, y, true)
	s.logger.Printf("placed dot at %s, pool %d", cell, s.pool.Count())
	s.publish(Event{Type: EventCellPlaced, Cell: cell})
	return true
}

// Confirm scans the grid. A pure match consumes the matched cells without
// refunding them; anything else refunds every placed dot. Either way the
// grid is empty afterwards.
func (s *Session) Confirm() Result {
	outcome := s.matcher.Scan(s.grid, s.catalog)
	if !outcome.Matched {
		units := s.refundAll()
		s.logger.Printf("no recipe matched, refunded %d dots, pool %d", units, s.pool.Count())
		s.publish(Event{Type: EventRefunded, Units: units})
		return Result{Kind: ResultRefunded, UnitsReturned: units, NearMisses: len(outcome.NearMisses)}
	}

	r := outcome.Recipe
	for _, off := range r.Shape {
		p := outcome.Anchor.Add(off)
		s.grid.Set(p.X, p.Y, false)
		delete(s.waived, p)
	}
	s.logger.Printf("crafted %s at %s, consumed %d dots", r.ID, outcome.Anchor, r.Size())
	s.publish(Event{Type: EventCrafted, Recipe: r, Anchor: outcome.Anchor, Units: r.Size()})
	return Result{
		Kind:       ResultCrafted,
		RecipeID:   r.ID,
		Recipe:     r,
		Anchor:     outcome.Anchor,
		NearMisses: len(outcome.NearMisses),
	}
}

// Reset refunds and clears the grid without scanning, returning the
// number of dots put back in the pool.
func (s *Session) Reset() int {
	units := s.refundAll()
	s.publish(Event{Type: EventRefunded, Units: units})
	return units
}

// CreditPool adds amount dots to the pool. Non-positive amounts are
// rejected and reported as false.
func (s *Session) CreditPool(amount int) bool {
	if amount <= 0 {
		s.logger.Printf("rejected dot credit of %d", amount)
		s.publish(Event{Type: EventCreditRejected, Units: amount})
		return false
	}
	s.pool.Deposit(amount)
	s.publish(Event{Type: EventCredited, Units: amount})
	return true
}

// refundAll returns every paid dot on the grid to the pool and clears it.
func (s *Session) refundAll() int {
	units := 0
	for _, p := range s.grid.Occupied() {
		if _, free := s.waived[p]; !free {
			units++
		}
	}
	s.pool.Deposit(units)
	s.grid.Clear()
	clear(s.waived)
	return units
}

func (s *Session) reportNearMiss(m NearMiss) {
	s.logger.Printf("shape %s fits at %s but needs %d dots and the grid holds %d",
		m.Recipe.ID, m.Anchor, m.Required, m.Occupied)
	s.publish(Event{Type: EventNearMiss, Recipe: m.Recipe, Anchor: m.Anchor, Units: m.Occupied})
}

func (s *Session) publish(e Event) {
	e.Pool = s.pool.Count()
	s.bus.Publish(e)
}

// PoolCount returns the spendable dot count.
func (s *Session) PoolCount() int { return s.pool.Count() }

// CellState reports whether (x, y) is occupied. Out-of-range cells read as empty.
func (s *Session) CellState(x, y int) bool { return s.grid.Get(x, y) }

// OccupiedCount returns the number of dots on the grid.
func (s *Session) OccupiedCount() int { return s.grid.OccupiedCount() }

// GridSize returns the grid dimension.
func (s *Session) GridSize() int { return s.grid.Size() }

// Catalog returns the catalog the session matches against.
func (s *Session) Catalog() *Catalog { return s.catalog }

// Snapshot is a read-only copy of session state for display.
type Snapshot struct {
	Pool     int      `json:"pool"`
	Size     int      `json:"size"`
	Rows     []string `json:"rows"`
	Occupied []Point  `json:"occupied"`
}

// Snapshot copies the current pool and grid state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Pool:     s.pool.Count(),
		Size:     s.grid.Size(),
		Rows:     s.grid.Rows(),
		Occupied: s.grid.Occupied(),
	}
}
