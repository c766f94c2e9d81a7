package crafting

import "fmt"

// RecipeID uniquely identifies a recipe within a catalog.
type RecipeID string

// WeaponKind tells the host how the crafted weapon attacks.
type WeaponKind string

const (
	WeaponMelee  WeaponKind = "melee"
	WeaponRanged WeaponKind = "ranged"
)

// Recipe is a named shape. The shape is a set of offsets relative to an
// anchor cell; its size is the number of offsets. The weapon fields are
// opaque to the matcher and are handed to whoever spawns the artifact.
type Recipe struct {
	ID    RecipeID `json:"id"`
	Name  string   `json:"name"`
	Shape []Point  `json:"shape"`

	Kind            WeaponKind `json:"kind,omitempty"`
	Damage          float64    `json:"damage,omitempty"`
	AttackRate      float64    `json:"attackRate,omitempty"`
	ProjectileSpeed float64    `json:"projectileSpeed,omitempty"`
	// Durability is the number of uses before the weapon breaks. Zero means
	// the weapon never breaks.
	Durability int `json:"durability,omitempty"`
	// Salvage is the number of dots returned when the weapon is broken down.
	Salvage int `json:"salvage,omitempty"`
}

// Size returns the number of cells the shape occupies.
func (r *Recipe) Size() int { return len(r.Shape) }

// Matchable reports whether the recipe can ever produce a match.
func (r *Recipe) Matchable() bool { return len(r.Shape) > 0 }

// Bounds returns the smallest and largest offsets of the shape on each axis.
func (r *Recipe) Bounds() (lo, hi Point) {
	for i, c := range r.Shape {
		if i == 0 {
			lo, hi = c, c
			continue
		}
		lo.X = min(lo.X, c.X)
		lo.Y = min(lo.Y, c.Y)
		hi.X = max(hi.X, c.X)
		hi.Y = max(hi.Y, c.Y)
	}
	return lo, hi
}

// validate checks the recipe and collapses duplicate offsets in place,
// keeping first occurrences in order.
func (r *Recipe) validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidRecipe)
	}
	switch r.Kind {
	case "", WeaponMelee, WeaponRanged:
	default:
		return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidRecipe, r.ID, r.Kind)
	}
	if r.Durability < 0 {
		return fmt.Errorf("%w: %s: durability cannot be negative", ErrInvalidRecipe, r.ID)
	}
	if r.Salvage < 0 {
		return fmt.Errorf("%w: %s: salvage cannot be negative", ErrInvalidRecipe, r.ID)
	}
	if r.Damage < 0 || r.AttackRate < 0 || r.ProjectileSpeed < 0 {
		return fmt.Errorf("%w: %s: weapon stats cannot be negative", ErrInvalidRecipe, r.ID)
	}
	r.Shape = uniqueOffsets(r.Shape)
	return nil
}

func uniqueOffsets(cells []Point) []Point {
	if len(cells) == 0 {
		return nil
	}
	seen := make(map[Point]struct{}, len(cells))
	out := make([]Point, 0, len(cells))
	for _, c := range cells {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
