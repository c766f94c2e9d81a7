package crafting

import "strings"

// DefaultGridSize is the dimension of the assembly grid used by the game.
const DefaultGridSize = 5

// Grid is a fixed-size square occupancy matrix. Occupancy is anonymous:
// the grid does not remember which placement filled a cell.
type Grid struct {
	size  int
	cells []bool
}

// NewGrid creates an empty size x size grid.
func NewGrid(size int) (*Grid, error) {
	if size < 1 {
		return nil, ErrInvalidGridSize
	}
	return &Grid{size: size, cells: make([]bool, size*size)}, nil
}

// Size returns the grid dimension N.
func (g *Grid) Size() int { return g.size }

// InBounds reports whether (x, y) lies inside [0, N) on both axes.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.size && y >= 0 && y < g.size
}

// Get returns the occupancy of (x, y). Out-of-range cells read as empty.
func (g *Grid) Get(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y*g.size+x]
}

// Set changes the occupancy of (x, y). Out-of-range cells are ignored.
func (g *Grid) Set(x, y int, occupied bool) {
	if !g.InBounds(x, y) {
		return
	}
	g.cells[y*g.size+x] = occupied
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Occupied lists occupied cells in row-major order.
func (g *Grid) Occupied() []Point {
	out := make([]Point, 0, len(g.cells))
	for y := 0; y < g.size; y++ {
		for x := 0; x < g.size; x++ {
			if g.cells[y*g.size+x] {
				out = append(out, Point{X: x, Y: y})
			}
		}
	}
	return out
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = false
	}
}

// Rows renders the grid as one string per row, '#' for occupied and '.'
// for empty cells.
func (g *Grid) Rows() []string {
	rows := make([]string, g.size)
	var b strings.Builder
	for y := 0; y < g.size; y++ {
		b.Reset()
		for x := 0; x < g.size; x++ {
			if g.cells[y*g.size+x] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return rows
}

func (g *Grid) String() string {
	return strings.Join(g.Rows(), "\n")
}
