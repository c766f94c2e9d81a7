package workbench

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gravitas-games/dotforge/pkg/crafting"
)

// ErrRegistryFull is returned when no more benches may be opened.
var ErrRegistryFull = errors.New("workbench registry is full")

// Registry maps owners to their benches. Benches live for the life of the
// registry; idle sweeps only settle their grids.
type Registry struct {
	mu      sync.RWMutex
	benches map[string]*Bench
	max     int
	catalog *crafting.Catalog
	opts    Options
}

// NewRegistry creates a registry that opens at most maxBenches benches.
// A non-positive limit means unbounded.
func NewRegistry(catalog *crafting.Catalog, maxBenches int, opts Options) *Registry {
	return &Registry{
		benches: make(map[string]*Bench),
		max:     maxBenches,
		catalog: catalog,
		opts:    opts,
	}
}

// Open returns owner's bench, creating it on first use.
func (r *Registry) Open(owner string) (*Bench, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.openLocked(owner)
}

func (r *Registry) openLocked(owner string) (*Bench, error) {
	if b, ok := r.benches[owner]; ok {
		return b, nil
	}
	if r.max > 0 && len(r.benches) >= r.max {
		return nil, ErrRegistryFull
	}
	b, err := New(owner, r.catalog, r.opts)
	if err != nil {
		return nil, err
	}
	r.benches[owner] = b
	log.Printf("Opened bench %s for %s", b.ID, owner)
	return b, nil
}

// With runs fn on owner's bench, opening it on first use. The registry
// stays locked while fn runs, so Close cannot detach the bench midway.
// fn must not call back into the registry.
func (r *Registry) With(owner string, fn func(b *Bench)) error {
	r.mu.RLock()
	if b, ok := r.benches[owner]; ok {
		defer r.mu.RUnlock()
		fn(b)
		return nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	b, err := r.openLocked(owner)
	if err != nil {
		return err
	}
	fn(b)
	return nil
}

// Get retrieves owner's bench.
func (r *Registry) Get(owner string) (*Bench, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.benches[owner]
	return b, ok
}

// Close removes owner's bench, refunding any dots still on its grid.
// It returns the refunded count and whether a bench existed. The bench's
// pool and armory go with it.
func (r *Registry) Close(owner string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.benches[owner]
	if !ok {
		return 0, false
	}
	delete(r.benches, owner)
	units, _ := b.Reset()
	log.Printf("Closed bench %s for %s, refunded %d dots", b.ID, owner, units)
	return units, true
}

// Sweep refunds the grids of benches idle for longer than idle and returns
// their owners. Benches stay open with their pool and armory intact.
func (r *Registry) Sweep(idle time.Duration) []string {
	cutoff := time.Now().Add(-idle)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var settled []string
	for owner, b := range r.benches {
		if units, ok := b.ResetIfIdle(cutoff); ok {
			log.Printf("Settled idle bench %s for %s, refunded %d dots", b.ID, owner, units)
			settled = append(settled, owner)
		}
	}
	return settled
}

// Len returns the number of open benches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.benches)
}

// Catalog returns the catalog shared by every bench.
func (r *Registry) Catalog() *crafting.Catalog {
	return r.catalog
}
