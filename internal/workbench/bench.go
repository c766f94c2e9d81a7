// Package workbench hosts crafting sessions for concurrent callers. Each
// Bench owns one crafting.Session and is the single lock around it.
package workbench

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

// Options configures the sessions a bench creates.
type Options struct {
	GridSize    int
	InitialDots int
	// ConsumptionChance below 1 enables free placements.
	ConsumptionChance float64
	// Seed drives the consumption roller; zero seeds from the clock.
	Seed   int64
	Logger *log.Logger
}

// State is a point-in-time view of a bench.
type State struct {
	BenchID  string           `json:"bench_id"`
	Pool     int              `json:"pool"`
	Size     int              `json:"size"`
	Rows     []string         `json:"rows"`
	Occupied []crafting.Point `json:"occupied"`
	Weapons  int              `json:"weapons"`
}

// Bench is one player's crafting station: a crafting session plus the
// weapons crafted on it.
type Bench struct {
	ID    string
	Owner string

	mu       sync.Mutex
	session  *crafting.Session
	armory   *Armory
	bus      *crafting.SimpleEventBus
	lastUsed time.Time
}

// New creates a bench for owner.
func New(owner string, catalog *crafting.Catalog, opts Options) (*Bench, error) {
	bus := crafting.NewSimpleEventBus()
	sessionOpts := []crafting.Option{crafting.WithEventBus(bus)}
	if opts.GridSize > 0 {
		sessionOpts = append(sessionOpts, crafting.WithGridSize(opts.GridSize))
	}
	if opts.Logger != nil {
		sessionOpts = append(sessionOpts, crafting.WithLogger(opts.Logger))
	}
	if opts.ConsumptionChance > 0 && opts.ConsumptionChance < 1 {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		sessionOpts = append(sessionOpts, crafting.WithConsumption(opts.ConsumptionChance, crafting.NewSeededRoller(seed)))
	}

	session, err := crafting.NewSession(catalog, opts.InitialDots, sessionOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create crafting session: %w", err)
	}
	return &Bench{
		ID:       uuid.NewString(),
		Owner:    owner,
		session:  session,
		armory:   NewArmory(),
		bus:      bus,
		lastUsed: time.Now(),
	}, nil
}

// Subscribe registers a handler for the bench's crafting events. Handlers
// run while the bench lock is held and must not call back into the bench.
func (b *Bench) Subscribe(handler func(crafting.Event)) (unsubscribe func()) {
	return b.bus.Subscribe(handler)
}

// Toggle places or takes back a dot at (x, y).
func (b *Bench) Toggle(x, y int) (bool, State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	changed := b.session.ToggleCell(x, y)
	return changed, b.stateLocked()
}

// Confirm runs the matcher. A crafted result also stores the new weapon,
// which is returned; it is nil on a refund.
func (b *Bench) Confirm() (crafting.Result, *Weapon, State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	res := b.session.Confirm()
	var weapon *Weapon
	if res.Crafted() {
		w := *b.armory.Add(res.Recipe)
		weapon = &w
	}
	return res, weapon, b.stateLocked()
}

// Reset refunds every placed dot without matching.
func (b *Bench) Reset() (int, State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	units := b.session.Reset()
	return units, b.stateLocked()
}

// Credit adds dots from a pickup or reward.
func (b *Bench) Credit(amount int) (bool, State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	ok := b.session.CreditPool(amount)
	return ok, b.stateLocked()
}

// Wear spends weapon uses. A weapon that breaks is salvaged: its salvage
// dots are credited to the pool and returned.
func (b *Bench) Wear(weaponID string, uses int) (Weapon, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	w, broken, err := b.armory.Wear(weaponID, uses)
	if err != nil || !broken {
		return w, 0, err
	}
	return w, b.creditSalvage(w), nil
}

// Salvage breaks a weapon down and credits its salvage dots to the pool.
func (b *Bench) Salvage(weaponID string) (Weapon, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch()
	w, err := b.armory.Take(weaponID)
	if err != nil {
		return Weapon{}, 0, err
	}
	return w, b.creditSalvage(w), nil
}

func (b *Bench) creditSalvage(w Weapon) int {
	if w.Salvage <= 0 {
		return 0
	}
	if !b.session.CreditPool(w.Salvage) {
		return 0
	}
	return w.Salvage
}

// ResetIfIdle refunds the grid when the bench has not been used since
// cutoff and holds placed dots. The check and the refund happen under one
// lock, so a bench touched after cutoff keeps its grid. Pool and armory
// are never touched.
func (b *Bench) ResetIfIdle(cutoff time.Time) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.lastUsed.Before(cutoff) || b.session.OccupiedCount() == 0 {
		return 0, false
	}
	return b.session.Reset(), true
}

// Weapons lists the armory contents.
func (b *Bench) Weapons() []Weapon {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.armory.List()
}

// Catalog returns the catalog the bench crafts from.
func (b *Bench) Catalog() *crafting.Catalog {
	return b.session.Catalog()
}

// State returns the current bench state.
func (b *Bench) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// IdleSince returns when the bench was last used.
func (b *Bench) IdleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed
}

func (b *Bench) touch() {
	b.lastUsed = time.Now()
}

// stateLocked builds a State; the caller must hold b.mu.
func (b *Bench) stateLocked() State {
	snap := b.session.Snapshot()
	return State{
		BenchID:  b.ID,
		Pool:     snap.Pool,
		Size:     snap.Size,
		Rows:     snap.Rows,
		Occupied: snap.Occupied,
		Weapons:  b.armory.Len(),
	}
}
