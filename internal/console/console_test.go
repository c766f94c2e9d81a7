package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/gravitas-games/dotforge/internal/workbench"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

func newTestConsole(t *testing.T, dots int) (*Console, *bytes.Buffer, *workbench.Bench) {
	t.Helper()
	bench, err := workbench.New("tester", crafting.DefaultCatalog(), workbench.Options{InitialDots: dots})
	if err != nil {
		t.Fatalf("failed to create bench: %v", err)
	}
	var out bytes.Buffer
	c := New(bench, &out)
	t.Cleanup(c.Close)
	return c, &out, bench
}

func TestResolve(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		verb        string
		want        string
		suggestions []string
	}{
		{"place", "place", nil},
		{"TOGGLE", "place", nil},
		{"confrim", "confirm", nil},
		{"shw", "show", nil},
		{"salvag", "salvage", nil},
		{"ow", "", []string{"log", "show"}},
		{"xyzzy", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.verb, func(t *testing.T) {
			cmd, suggestions := r.Resolve(tt.verb)
			got := ""
			if cmd != nil {
				got = cmd.Name
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if strings.Join(suggestions, ",") != strings.Join(tt.suggestions, ",") {
				t.Fatalf("expected suggestions %v, got %v", tt.suggestions, suggestions)
			}
		})
	}
}

func TestCraftThroughConsole(t *testing.T) {
	c, out, bench := newTestConsole(t, 10)

	for _, line := range []string{"place 0 0", "toggle 0 1", "confirm"} {
		if !c.Exec(line) {
			t.Fatalf("%q should not quit", line)
		}
	}
	if !strings.Contains(out.String(), "Crafted Dagger at (0, 0)! Pool: 8") {
		t.Fatalf("expected craft message, got:\n%s", out.String())
	}
	if len(bench.Weapons()) != 1 {
		t.Fatalf("expected one weapon in the armory")
	}

	out.Reset()
	c.Exec("armory")
	id := bench.Weapons()[0].ID
	if !strings.Contains(out.String(), id[:8]) {
		t.Fatalf("expected armory listing with %s, got:\n%s", id[:8], out.String())
	}

	out.Reset()
	c.Exec("salvage " + id[:6])
	if !strings.Contains(out.String(), "Salvaged Dagger for 1 dots. Pool: 9") {
		t.Fatalf("expected salvage message, got:\n%s", out.String())
	}
}

func TestRefundReportsNearMiss(t *testing.T) {
	c, out, _ := newTestConsole(t, 10)
	c.Exec("place 0 0")
	c.Exec("place 0 1")
	c.Exec("place 4 4")
	out.Reset()

	c.Exec("confirm")
	text := out.String()
	if !strings.Contains(text, "Dagger fits at (0, 0) but stray dots spoil it.") {
		t.Fatalf("expected near miss report, got:\n%s", text)
	}
	if !strings.Contains(text, "refunded 3 dots. Pool: 10") {
		t.Fatalf("expected refund message, got:\n%s", text)
	}
}

func TestPlaceMessages(t *testing.T) {
	c, out, _ := newTestConsole(t, 1)
	tests := []struct {
		line string
		want string
	}{
		{"place 1 1", "Placed (1, 1). Pool: 0"},
		{"place 2 2", "No dots left to place."},
		{"place 1 1", "Took back (1, 1). Pool: 1"},
		{"place 9 0", "(9, 0) is off the 5x5 grid."},
		{"place a 0", "x must be a number"},
		{"place 1", "Usage: place <x> <y>"},
		{"pickup 0", "amount must be positive"},
		{"pickup 4", "Picked up 4 dots. Pool: 5"},
		{"salvage nope", "weapon not found"},
		{"frobnicate", "Unknown command \"frobnicate\""},
		{"ow", "Did you mean: log, show?"},
	}
	for _, tt := range tests {
		out.Reset()
		c.Exec(tt.line)
		if !strings.Contains(out.String(), tt.want) {
			t.Fatalf("%q: expected %q, got %q", tt.line, tt.want, out.String())
		}
	}
}

func TestShowAndRecipes(t *testing.T) {
	c, out, _ := newTestConsole(t, 10)
	c.Exec("place 2 1")
	out.Reset()

	c.Exec("show")
	if !strings.Contains(out.String(), "1 ..#..") || !strings.Contains(out.String(), "Pool: 9  Placed: 1") {
		t.Fatalf("unexpected grid:\n%s", out.String())
	}

	out.Reset()
	c.Exec("recipes")
	text := out.String()
	if !strings.Contains(text, "1. Dagger (dagger, 2 dots)") || !strings.Contains(text, "7. Wand (wand, 3 dots)") {
		t.Fatalf("expected recipes in catalog order, got:\n%s", text)
	}
	if !strings.Contains(text, "     #..\n     .#.\n     ..#") {
		t.Fatalf("expected wand shape drawing, got:\n%s", text)
	}
}

func TestLogKeepsRecentEvents(t *testing.T) {
	c, out, _ := newTestConsole(t, 100)
	for i := 0; i < maxHistory+5; i++ {
		c.Exec("place 0 0")
	}
	if len(c.history) != maxHistory {
		t.Fatalf("expected history capped at %d, got %d", maxHistory, len(c.history))
	}

	out.Reset()
	c.Exec("log 2")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %q", out.String())
	}
}

func TestRunStopsOnQuit(t *testing.T) {
	c, out, bench := newTestConsole(t, 10)
	in := strings.NewReader("place 0 0\nquit\nplace 1 1\n")

	if err := c.Run(context.Background(), in); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}
	if got := len(bench.State().Occupied); got != 1 {
		t.Fatalf("expected commands after quit to be ignored, got %d placed", got)
	}
	if !strings.Contains(out.String(), "[10] > ") {
		t.Fatalf("expected prompt with pool count, got:\n%s", out.String())
	}
}

func TestCraftHidesNearMissesOfSmallerShapes(t *testing.T) {
	c, out, _ := newTestConsole(t, 10)
	for y := 0; y < 4; y++ {
		c.Exec("place 0 " + string(rune('0'+y)))
	}
	out.Reset()

	c.Exec("confirm")
	if !strings.Contains(out.String(), "Crafted Spear at (0, 0)!") {
		t.Fatalf("expected spear craft, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "spoil") {
		t.Fatalf("near misses should not be reported on a craft, got:\n%s", out.String())
	}
}

func TestUseWearsWeaponDown(t *testing.T) {
	c, out, bench := newTestConsole(t, 2)
	c.Exec("place 0 0")
	c.Exec("place 0 1")
	c.Exec("confirm")
	id := bench.Weapons()[0].ID

	out.Reset()
	c.Exec("use " + id + " 5")
	if !strings.Contains(out.String(), "Dagger has 7 uses left.") {
		t.Fatalf("expected remaining uses, got:\n%s", out.String())
	}

	out.Reset()
	c.Exec("swing " + id[:8] + " 7")
	if !strings.Contains(out.String(), "Dagger broke! Salvaged 1 dots. Pool: 1") {
		t.Fatalf("expected weapon to break, got:\n%s", out.String())
	}
	if len(bench.Weapons()) != 0 {
		t.Fatalf("broken weapon should leave the armory")
	}
}
