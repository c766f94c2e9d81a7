package crafting

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk layout of a recipe catalog.
type catalogFile struct {
	Recipes []recipeEntry `yaml:"recipes"`
}

type recipeEntry struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind"`
	Damage          float64 `yaml:"damage"`
	AttackRate      float64 `yaml:"attack_rate"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	Durability      int     `yaml:"durability"`
	Salvage         int     `yaml:"salvage"`
	// Offsets lists [dx, dy] pairs.
	Offsets [][]int `yaml:"offsets"`
	// Pattern draws the shape with '#' for required cells.
	Pattern string `yaml:"pattern"`
}

// LoadCatalog reads a YAML recipe catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML recipe catalog. Recipes keep file order.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	recipes := make([]*Recipe, 0, len(f.Recipes))
	for i, e := range f.Recipes {
		shape, err := e.shape()
		if err != nil {
			return nil, fmt.Errorf("recipe %d (%s): %w", i, e.ID, err)
		}
		name := e.Name
		if name == "" {
			name = e.ID
		}
		recipes = append(recipes, &Recipe{
			ID:              RecipeID(e.ID),
			Name:            name,
			Shape:           shape,
			Kind:            WeaponKind(strings.ToLower(e.Kind)),
			Damage:          e.Damage,
			AttackRate:      e.AttackRate,
			ProjectileSpeed: e.ProjectileSpeed,
			Durability:      e.Durability,
			Salvage:         e.Salvage,
		})
	}
	return NewCatalog(recipes...)
}

func (e recipeEntry) shape() ([]Point, error) {
	hasPattern := strings.TrimSpace(e.Pattern) != ""
	switch {
	case len(e.Offsets) > 0 && hasPattern:
		return nil, fmt.Errorf("%w: offsets and pattern are mutually exclusive", ErrInvalidRecipe)
	case hasPattern:
		return ParsePattern(e.Pattern)
	}
	out := make([]Point, 0, len(e.Offsets))
	for j, o := range e.Offsets {
		if len(o) != 2 {
			return nil, fmt.Errorf("%w: offset %d must be a [dx, dy] pair", ErrInvalidRecipe, j)
		}
		out = append(out, Point{X: o[0], Y: o[1]})
	}
	return out, nil
}

// ParsePattern turns rows of '#' (required) and '.' (ignored) into shape
// offsets. Offsets are relative to the top-left corner of the drawn
// cells' bounding box; blank leading rows and columns are trimmed.
// Spaces are treated like '.'.
func ParsePattern(pattern string) ([]Point, error) {
	var cells []Point
	lines := strings.Split(strings.ReplaceAll(pattern, "\r\n", "\n"), "\n")
	for y, line := range lines {
		for x, ch := range strings.TrimRight(line, " \t") {
			switch ch {
			case '#':
				cells = append(cells, Point{X: x, Y: y})
			case '.', ' ':
			default:
				return nil, fmt.Errorf("%w: unexpected %q in pattern row %d", ErrInvalidRecipe, ch, y)
			}
		}
	}
	if len(cells) == 0 {
		return nil, nil
	}
	r := Recipe{Shape: cells}
	origin, _ := r.Bounds()
	for i := range cells {
		cells[i] = Point{X: cells[i].X - origin.X, Y: cells[i].Y - origin.Y}
	}
	return cells, nil
}
