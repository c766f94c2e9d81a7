package crafting

// NearMiss records a recipe whose shape fit the grid at an anchor but
// which did not cover every occupied cell.
type NearMiss struct {
	Recipe   *Recipe
	Anchor   Point
	Required int // cells in the recipe shape
	Occupied int // cells occupied on the grid
}

// Outcome is the result of a scan. Recipe and Anchor are only set when
// Matched is true.
type Outcome struct {
	Matched    bool
	Recipe     *Recipe
	Anchor     Point
	NearMisses []NearMiss
}

// Matcher scans a grid for the first pure recipe instance.
type Matcher struct {
	// OnNearMiss, if set, is called for every structural match rejected by
	// the purity rule, in scan order.
	OnNearMiss func(NearMiss)
}

// Scan tries every anchor in row-major order (y outer, x inner) and, for
// each anchor, every recipe in catalog order. The first pair whose shape
// lies fully inside the grid on occupied cells and whose size equals the
// grid's occupied count wins.
func (m *Matcher) Scan(g *Grid, c *Catalog) Outcome {
	var out Outcome
	total := g.OccupiedCount()
	if total == 0 || c == nil {
		return out
	}

	n := g.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			anchor := Point{X: x, Y: y}
			for _, r := range c.recipes {
				if !r.Matchable() || !fits(g, r, anchor) {
					continue
				}
				if r.Size() != total {
					miss := NearMiss{Recipe: r, Anchor: anchor, Required: r.Size(), Occupied: total}
					out.NearMisses = append(out.NearMisses, miss)
					if m != nil && m.OnNearMiss != nil {
						m.OnNearMiss(miss)
					}
					continue
				}
				out.Matched = true
				out.Recipe = r
				out.Anchor = anchor
				return out
			}
		}
	}
	return out
}

// fits reports whether every offset of r, placed at anchor, lands on an
// in-bounds occupied cell. Offsets are never wrapped or clamped.
func fits(g *Grid, r *Recipe, anchor Point) bool {
	for _, off := range r.Shape {
		p := anchor.Add(off)
		if !g.InBounds(p.X, p.Y) {
			return false
		}
		if !g.Get(p.X, p.Y) {
			return false
		}
	}
	return true
}
