// Package console is a line-oriented text host for a crafting bench.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gravitas-games/dotforge/internal/workbench"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

// maxHistory is how many event lines the log verb keeps.
const maxHistory = 50

var errQuit = errors.New("quit")

// Console reads commands and drives a bench with them.
type Console struct {
	bench    *workbench.Bench
	out      io.Writer
	registry *Registry

	history     []string
	nearMisses  []string
	unsubscribe func()
}

// New creates a console writing to out.
func New(bench *workbench.Bench, out io.Writer) *Console {
	c := &Console{
		bench:    bench,
		out:      out,
		registry: DefaultRegistry(),
	}
	c.unsubscribe = bench.Subscribe(c.record)
	return c
}

// Close detaches the console from its bench.
func (c *Console) Close() {
	c.unsubscribe()
}

// Run executes lines from in until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(c.out, "Dot forge. Type help for commands.")
	c.prompt()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.Exec(scanner.Text()) {
			return nil
		}
		c.prompt()
	}
	return scanner.Err()
}

func (c *Console) prompt() {
	fmt.Fprintf(c.out, "[%d] > ", c.bench.State().Pool)
}

// Exec runs one command line. It returns false once the user quits.
func (c *Console) Exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	cmd, suggestions := c.registry.Resolve(fields[0])
	if cmd == nil {
		if len(suggestions) > 0 {
			c.printf("Unknown command %q. Did you mean: %s?", fields[0], strings.Join(suggestions, ", "))
		} else {
			c.printf("Unknown command %q. Type help for commands.", fields[0])
		}
		return true
	}

	args := fields[1:]
	if len(args) < cmd.MinArgs || len(args) > cmd.MaxArgs {
		c.printf("Usage: %s", cmd.Usage)
		return true
	}

	err := cmd.run(c, args)
	if errors.Is(err, errQuit) {
		return false
	}
	if err != nil {
		c.printf("Error: %v", err)
	}
	return true
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// record keeps a line per bench event and collects near misses for the
// next confirm to report. It runs under the bench lock.
func (c *Console) record(e crafting.Event) {
	var line string
	switch e.Type {
	case crafting.EventCellPlaced, crafting.EventCellCleared:
		line = fmt.Sprintf("%s %s, pool %d", e.Type, e.Cell, e.Pool)
	case crafting.EventCrafted:
		line = fmt.Sprintf("%s %s at %s, pool %d", e.Type, e.Recipe.Name, e.Anchor, e.Pool)
	case crafting.EventNearMiss:
		line = fmt.Sprintf("%s %s at %s", e.Type, e.Recipe.Name, e.Anchor)
		c.nearMisses = append(c.nearMisses, fmt.Sprintf("%s fits at %s but stray dots spoil it.", e.Recipe.Name, e.Anchor))
	default:
		line = fmt.Sprintf("%s %d, pool %d", e.Type, e.Units, e.Pool)
	}
	c.history = append(c.history, line)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
}

// DefaultRegistry returns the console's verbs.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, cmd := range []*Command{
		{Name: "place", Aliases: []string{"toggle", "t", "p"}, MinArgs: 2, MaxArgs: 2, Usage: "place <x> <y>", Help: "place or take back the dot at a cell", run: (*Console).place},
		{Name: "confirm", Aliases: []string{"craft", "c"}, Usage: "confirm", Help: "craft the shape on the grid, or refund it", run: (*Console).confirm},
		{Name: "reset", Aliases: []string{"clear"}, Usage: "reset", Help: "take every dot back", run: (*Console).reset},
		{Name: "pickup", MinArgs: 1, MaxArgs: 1, Usage: "pickup <n>", Help: "add dots to the pool", run: (*Console).pickup},
		{Name: "show", Aliases: []string{"grid", "s"}, Usage: "show", Help: "draw the grid", run: (*Console).show},
		{Name: "recipes", Aliases: []string{"r"}, Usage: "recipes", Help: "list the known shapes", run: (*Console).recipes},
		{Name: "armory", Aliases: []string{"weapons", "a"}, Usage: "armory", Help: "list crafted weapons", run: (*Console).armory},
		{Name: "salvage", MinArgs: 1, MaxArgs: 1, Usage: "salvage <weapon id>", Help: "break a weapon down for dots", run: (*Console).salvage},
		{Name: "use", Aliases: []string{"swing", "fire"}, MinArgs: 1, MaxArgs: 2, Usage: "use <weapon id> [n]", Help: "wear a weapon down; broken weapons are salvaged", run: (*Console).use},
		{Name: "log", MaxArgs: 1, Usage: "log [n]", Help: "show recent bench events", run: (*Console).log},
		{Name: "help", Aliases: []string{"?", "h"}, MaxArgs: 1, Usage: "help [command]", Help: "show commands", run: (*Console).help},
		{Name: "quit", Aliases: []string{"exit", "q"}, Usage: "quit", Help: "leave the console", run: (*Console).quit},
	} {
		r.Register(cmd)
	}
	return r
}

func (c *Console) place(args []string) error {
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("x must be a number, got %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("y must be a number, got %q", args[1])
	}

	changed, state := c.bench.Toggle(x, y)
	switch {
	case x < 0 || y < 0 || x >= state.Size || y >= state.Size:
		c.printf("(%d, %d) is off the %dx%d grid.", x, y, state.Size, state.Size)
	case !changed:
		c.printf("No dots left to place.")
	case state.Rows[y][x] == '#':
		c.printf("Placed (%d, %d). Pool: %d", x, y, state.Pool)
	default:
		c.printf("Took back (%d, %d). Pool: %d", x, y, state.Pool)
	}
	return nil
}

func (c *Console) confirm([]string) error {
	res, weapon, state := c.bench.Confirm()
	misses := c.nearMisses
	c.nearMisses = nil
	if res.Crafted() {
		c.printf("Crafted %s at %s! Pool: %d", weapon.Name, res.Anchor, state.Pool)
		return nil
	}
	for _, m := range misses {
		c.printf("%s", m)
	}
	c.printf("No recipe matched; refunded %d dots. Pool: %d", res.UnitsReturned, state.Pool)
	return nil
}

func (c *Console) reset([]string) error {
	units, state := c.bench.Reset()
	c.printf("Refunded %d dots. Pool: %d", units, state.Pool)
	return nil
}

func (c *Console) pickup(args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("amount must be a number, got %q", args[0])
	}
	ok, state := c.bench.Credit(n)
	if !ok {
		return fmt.Errorf("amount must be positive, got %d", n)
	}
	c.printf("Picked up %d dots. Pool: %d", n, state.Pool)
	return nil
}

func (c *Console) show([]string) error {
	state := c.bench.State()
	var b strings.Builder
	b.WriteString("  ")
	for x := 0; x < state.Size; x++ {
		b.WriteString(strconv.Itoa(x % 10))
	}
	b.WriteByte('\n')
	for y, row := range state.Rows {
		fmt.Fprintf(&b, "%d %s\n", y%10, row)
	}
	fmt.Fprintf(&b, "Pool: %d  Placed: %d", state.Pool, len(state.Occupied))
	c.printf("%s", b.String())
	return nil
}

func (c *Console) recipes([]string) error {
	for i, r := range c.bench.Catalog().All() {
		c.printf("%d. %s (%s, %d dots)", i+1, r.Name, r.ID, r.Size())
		for _, row := range shapeRows(r) {
			c.printf("     %s", row)
		}
	}
	return nil
}

// shapeRows draws a recipe's shape inside its bounding box.
func shapeRows(r *crafting.Recipe) []string {
	if !r.Matchable() {
		return []string{"(no shape)"}
	}
	lo, hi := r.Bounds()
	w, h := hi.X-lo.X+1, hi.Y-lo.Y+1
	rows := make([][]byte, h)
	for y := range rows {
		rows[y] = []byte(strings.Repeat(".", w))
	}
	for _, p := range r.Shape {
		rows[p.Y-lo.Y][p.X-lo.X] = '#'
	}
	out := make([]string, h)
	for y, row := range rows {
		out[y] = string(row)
	}
	return out
}

func (c *Console) armory([]string) error {
	weapons := c.bench.Weapons()
	if len(weapons) == 0 {
		c.printf("No weapons yet.")
		return nil
	}
	for _, w := range weapons {
		durability := "unbreakable"
		if w.Durability > 0 {
			durability = fmt.Sprintf("%d uses", w.Durability)
		}
		c.printf("%s  %-12s %s, salvage %d", shortID(w.ID), w.Name, durability, w.Salvage)
	}
	return nil
}

func (c *Console) salvage(args []string) error {
	id, err := c.weaponID(args[0])
	if err != nil {
		return err
	}
	w, units, err := c.bench.Salvage(id)
	if err != nil {
		return err
	}
	c.printf("Salvaged %s for %d dots. Pool: %d", w.Name, units, c.bench.State().Pool)
	return nil
}

func (c *Console) use(args []string) error {
	id, err := c.weaponID(args[0])
	if err != nil {
		return err
	}
	uses := 1
	if len(args) == 2 {
		uses, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("uses must be a number, got %q", args[1])
		}
	}
	w, units, err := c.bench.Wear(id, uses)
	if err != nil {
		return err
	}
	switch {
	case !c.holds(w.ID):
		c.printf("%s broke! Salvaged %d dots. Pool: %d", w.Name, units, c.bench.State().Pool)
	case w.Durability == 0:
		c.printf("%s never wears out.", w.Name)
	default:
		c.printf("%s has %d uses left.", w.Name, w.Durability)
	}
	return nil
}

func (c *Console) holds(id string) bool {
	for _, w := range c.bench.Weapons() {
		if w.ID == id {
			return true
		}
	}
	return false
}

// weaponID expands a unique prefix of a weapon ID.
func (c *Console) weaponID(prefix string) (string, error) {
	var found []string
	for _, w := range c.bench.Weapons() {
		if w.ID == prefix {
			return w.ID, nil
		}
		if strings.HasPrefix(w.ID, prefix) {
			found = append(found, w.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", workbench.ErrWeaponNotFound
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%q matches %d weapons", prefix, len(found))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (c *Console) log(args []string) error {
	n := len(c.history)
	if len(args) == 1 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return fmt.Errorf("count must be a positive number, got %q", args[0])
		}
		n = min(v, n)
	}
	if n == 0 {
		c.printf("Nothing has happened yet.")
		return nil
	}
	for _, line := range c.history[len(c.history)-n:] {
		c.printf("%s", line)
	}
	return nil
}

func (c *Console) help(args []string) error {
	if len(args) == 1 {
		cmd, _ := c.registry.Resolve(args[0])
		if cmd == nil {
			return fmt.Errorf("no command %q", args[0])
		}
		c.printf("%s: %s", cmd.Usage, cmd.Help)
		if len(cmd.Aliases) > 0 {
			c.printf("Also: %s", strings.Join(cmd.Aliases, ", "))
		}
		return nil
	}
	for _, cmd := range c.registry.Commands() {
		c.printf("  %-22s %s", cmd.Usage, cmd.Help)
	}
	return nil
}

func (c *Console) quit([]string) error {
	return errQuit
}
