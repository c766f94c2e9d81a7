package crafting

import (
	"math/rand/v2"
	"testing"
)

func line3() *Recipe {
	return &Recipe{ID: "line3", Name: "Line3", Shape: []Point{{0, 0}, {1, 0}, {2, 0}}}
}

func newTestSession(t *testing.T, dots int, recipes ...*Recipe) *Session {
	t.Helper()
	cat, err := NewCatalog(recipes...)
	if err != nil {
		t.Fatalf("unexpected catalog error: %v", err)
	}
	s, err := NewSession(cat, dots)
	if err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}
	return s
}

func place(t *testing.T, s *Session, cells ...Point) {
	t.Helper()
	for _, c := range cells {
		if !s.ToggleCell(c.X, c.Y) {
			t.Fatalf("expected toggle at %s to succeed", c)
		}
	}
}

func TestCraftPureLine(t *testing.T) {
	s := newTestSession(t, 3, line3())
	place(t, s, Point{0, 0}, Point{1, 0}, Point{2, 0})

	res := s.Confirm()
	if !res.Crafted() {
		t.Fatalf("expected crafted result, got %s", res.Kind)
	}
	if res.RecipeID != "line3" || res.Anchor != (Point{0, 0}) {
		t.Fatalf("expected line3 at (0, 0), got %s at %s", res.RecipeID, res.Anchor)
	}
	if s.OccupiedCount() != 0 {
		t.Fatalf("expected empty grid, got %d occupied", s.OccupiedCount())
	}
	if s.PoolCount() != 0 {
		t.Fatalf("expected consumed dots to stay spent, pool=%d", s.PoolCount())
	}
}

func TestConfirmRefundsWithoutMatch(t *testing.T) {
	s := newTestSession(t, 2, line3())
	place(t, s, Point{0, 0}, Point{1, 0})

	res := s.Confirm()
	if res.Kind != ResultRefunded || res.UnitsReturned != 2 {
		t.Fatalf("expected refund of 2, got %s/%d", res.Kind, res.UnitsReturned)
	}
	if s.PoolCount() != 2 || s.OccupiedCount() != 0 {
		t.Fatalf("expected pool=2 and empty grid, got pool=%d occupied=%d", s.PoolCount(), s.OccupiedCount())
	}
}

func TestImpureMatchIsRefunded(t *testing.T) {
	s := newTestSession(t, 4, line3())
	place(t, s, Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{4, 4})

	res := s.Confirm()
	if res.Kind != ResultRefunded || res.UnitsReturned != 4 {
		t.Fatalf("expected refund of 4, got %s/%d", res.Kind, res.UnitsReturned)
	}
	if res.NearMisses != 1 {
		t.Fatalf("expected one near miss, got %d", res.NearMisses)
	}
	if s.PoolCount() != 4 {
		t.Fatalf("expected pool=4, got %d", s.PoolCount())
	}
}

func TestToggleOccupiedAlwaysUndoes(t *testing.T) {
	s := newTestSession(t, 1, line3())
	place(t, s, Point{2, 2})
	if s.PoolCount() != 0 {
		t.Fatalf("expected pool=0 after placement, got %d", s.PoolCount())
	}
	if !s.ToggleCell(2, 2) {
		t.Fatalf("expected undo to succeed with an empty pool")
	}
	if s.PoolCount() != 1 || s.CellState(2, 2) {
		t.Fatalf("expected pool=1 and empty cell, got pool=%d cell=%v", s.PoolCount(), s.CellState(2, 2))
	}
}

func TestToggleRejectsWithEmptyPool(t *testing.T) {
	s := newTestSession(t, 0, line3())
	if s.ToggleCell(1, 1) {
		t.Fatalf("expected placement with empty pool to be rejected")
	}
	if s.CellState(1, 1) || s.PoolCount() != 0 {
		t.Fatalf("rejected placement must not mutate state")
	}
}

func TestToggleOutOfRangeIsNoop(t *testing.T) {
	s := newTestSession(t, 5, line3())
	for _, c := range []Point{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {99, 99}} {
		if s.ToggleCell(c.X, c.Y) {
			t.Fatalf("expected toggle at %s to be ignored", c)
		}
	}
	if s.PoolCount() != 5 || s.OccupiedCount() != 0 {
		t.Fatalf("out-of-range toggles must not mutate state")
	}
}

func TestCreditPool(t *testing.T) {
	s := newTestSession(t, 3, line3())
	tests := []struct {
		name   string
		amount int
		ok     bool
		pool   int
	}{
		{"zero", 0, false, 3},
		{"negative", -2, false, 3},
		{"positive", 4, true, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.CreditPool(tt.amount); got != tt.ok {
				t.Fatalf("CreditPool(%d) = %v, want %v", tt.amount, got, tt.ok)
			}
			if s.PoolCount() != tt.pool {
				t.Fatalf("expected pool=%d, got %d", tt.pool, s.PoolCount())
			}
		})
	}
}

func TestResetRefundsWithoutScanning(t *testing.T) {
	s := newTestSession(t, 3, line3())
	place(t, s, Point{0, 0}, Point{1, 0}, Point{2, 0})
	if got := s.Reset(); got != 3 {
		t.Fatalf("expected reset to return 3 dots, got %d", got)
	}
	if s.PoolCount() != 3 || s.OccupiedCount() != 0 {
		t.Fatalf("expected pool=3 and empty grid after reset")
	}
}

func TestCatalogOrderBreaksTies(t *testing.T) {
	first := &Recipe{ID: "first", Shape: []Point{{0, 0}, {1, 0}}}
	second := &Recipe{ID: "second", Shape: []Point{{1, 0}, {0, 0}}}
	s := newTestSession(t, 2, first, second)
	place(t, s, Point{3, 3}, Point{4, 3})

	res := s.Confirm()
	if res.RecipeID != "first" || res.Anchor != (Point{3, 3}) {
		t.Fatalf("expected first at (3, 3), got %s at %s", res.RecipeID, res.Anchor)
	}
}

func TestEarlierAnchorBeatsCatalogOrder(t *testing.T) {
	// Both recipes cover the same three cells; "hook" anchors at (1, 0)
	// via a negative offset, "corner" anchors at (0, 0), which is scanned first.
	hook := &Recipe{ID: "hook", Shape: []Point{{0, 0}, {0, 1}, {-1, 1}}}
	corner := &Recipe{ID: "corner", Shape: []Point{{1, 0}, {1, 1}, {0, 1}}}
	s := newTestSession(t, 3, hook, corner)
	place(t, s, Point{1, 0}, Point{1, 1}, Point{0, 1})

	res := s.Confirm()
	if res.RecipeID != "corner" || res.Anchor != (Point{0, 0}) {
		t.Fatalf("expected corner at (0, 0), got %s at %s", res.RecipeID, res.Anchor)
	}
}

func TestShapeDoesNotWrapAcrossRows(t *testing.T) {
	s := newTestSession(t, 3, line3())
	// (3,0),(4,0) plus (0,1) would be contiguous in a flattened grid.
	place(t, s, Point{3, 0}, Point{4, 0}, Point{0, 1})

	res := s.Confirm()
	if res.Crafted() {
		t.Fatalf("expected no match across the row boundary, got %s at %s", res.RecipeID, res.Anchor)
	}
	if res.UnitsReturned != 3 {
		t.Fatalf("expected 3 dots refunded, got %d", res.UnitsReturned)
	}
}

func TestEmptyShapeNeverMatches(t *testing.T) {
	ghost := &Recipe{ID: "ghost"}
	s := newTestSession(t, 3, ghost, line3())
	if w := s.Catalog().Warnings(); len(w) != 1 {
		t.Fatalf("expected one catalog warning, got %v", w)
	}
	place(t, s, Point{0, 2}, Point{1, 2}, Point{2, 2})
	if res := s.Confirm(); res.RecipeID != "line3" {
		t.Fatalf("expected line3, got %q", res.RecipeID)
	}
}

func TestConfirmOnEmptyGrid(t *testing.T) {
	s := newTestSession(t, 4, line3())
	res := s.Confirm()
	if res.Kind != ResultRefunded || res.UnitsReturned != 0 || s.PoolCount() != 4 {
		t.Fatalf("expected empty refund, got %s/%d pool=%d", res.Kind, res.UnitsReturned, s.PoolCount())
	}
}

func TestConservationAcrossRandomOperations(t *testing.T) {
	cat := DefaultCatalog()
	s, err := NewSession(cat, 6)
	if err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}
	rng := rand.New(rand.NewPCG(7, 11))
	credited := 6
	consumed := 0

	for i := 0; i < 2000; i++ {
		before := s.OccupiedCount()
		switch op := rng.IntN(10); {
		case op < 7:
			s.ToggleCell(rng.IntN(7)-1, rng.IntN(7)-1)
		case op < 8:
			amount := rng.IntN(4) - 1
			if s.CreditPool(amount) {
				credited += amount
			}
		case op < 9:
			res := s.Confirm()
			if res.Crafted() {
				if res.Recipe.Size() != before {
					t.Fatalf("step %d: crafted %s of size %d with %d occupied", i, res.RecipeID, res.Recipe.Size(), before)
				}
				consumed += before
			} else if res.UnitsReturned != before {
				t.Fatalf("step %d: refunded %d, expected %d", i, res.UnitsReturned, before)
			}
			if s.OccupiedCount() != 0 {
				t.Fatalf("step %d: grid not empty after confirm", i)
			}
		default:
			s.Reset()
		}
		if got := s.PoolCount() + s.OccupiedCount(); got != credited-consumed {
			t.Fatalf("step %d: pool+occupied=%d, want %d", i, got, credited-consumed)
		}
		if s.PoolCount() < 0 {
			t.Fatalf("step %d: negative pool", i)
		}
	}
}

func TestWaivedPlacementsDoNotMintDots(t *testing.T) {
	cat, _ := NewCatalog(line3())
	s, err := NewSession(cat, 1, WithConsumption(0, NewSeededRoller(3)))
	if err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}
	place(t, s, Point{0, 0}, Point{1, 0}, Point{2, 0})
	if s.PoolCount() != 1 {
		t.Fatalf("expected free placements to leave pool=1, got %d", s.PoolCount())
	}
	if !s.ToggleCell(2, 0) || s.PoolCount() != 1 {
		t.Fatalf("taking back a free dot must not credit the pool, pool=%d", s.PoolCount())
	}
	if units := s.Reset(); units != 0 || s.PoolCount() != 1 {
		t.Fatalf("expected no refund for free dots, got %d (pool=%d)", units, s.PoolCount())
	}
}

func TestNewSessionValidation(t *testing.T) {
	cat := DefaultCatalog()
	if _, err := NewSession(nil, 1); err != ErrNilCatalog {
		t.Fatalf("expected ErrNilCatalog, got %v", err)
	}
	if _, err := NewSession(cat, -1); err == nil {
		t.Fatalf("expected error for negative pool")
	}
	if _, err := NewSession(cat, 1, WithGridSize(0)); err == nil {
		t.Fatalf("expected error for zero grid size")
	}
	s, err := NewSession(cat, 1, WithGridSize(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.GridSize() != 7 {
		t.Fatalf("expected grid size 7, got %d", s.GridSize())
	}
}

func TestSessionPublishesEvents(t *testing.T) {
	bus := NewSimpleEventBus()
	var got []EventType
	bus.Subscribe(func(e Event) { got = append(got, e.Type) })

	cat, _ := NewCatalog(line3())
	s, err := NewSession(cat, 4, WithEventBus(bus))
	if err != nil {
		t.Fatalf("unexpected session error: %v", err)
	}
	place(t, s, Point{0, 0}, Point{1, 0}, Point{2, 0}, Point{0, 4})
	s.Confirm()
	s.ToggleCell(0, 0)
	s.ToggleCell(0, 0)
	s.CreditPool(0)

	want := []EventType{
		EventCellPlaced, EventCellPlaced, EventCellPlaced, EventCellPlaced,
		EventNearMiss, EventRefunded,
		EventCellPlaced, EventCellCleared,
		EventCreditRejected,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
