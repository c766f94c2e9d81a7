package crafting

import (
	"errors"
	"fmt"
)

// Catalog is an immutable, ordered list of recipes. Order is significant:
// when two recipes match at the same anchor the earlier one wins.
type Catalog struct {
	recipes  []*Recipe
	byID     map[RecipeID]*Recipe
	warnings []string
}

// NewCatalog builds a catalog from recipes in the given order. Recipes are
// copied, so later changes by the caller do not leak into the catalog.
// A recipe with an empty shape is kept but can never match; a warning is
// recorded for it.
func NewCatalog(recipes ...*Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: make([]*Recipe, 0, len(recipes)),
		byID:    make(map[RecipeID]*Recipe, len(recipes)),
	}
	for i, r := range recipes {
		if r == nil {
			return nil, fmt.Errorf("recipe %d: %w", i, errors.New("recipe cannot be nil"))
		}
		cp := *r
		cp.Shape = append([]Point(nil), r.Shape...)
		if err := cp.validate(); err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
		if _, exists := c.byID[cp.ID]; exists {
			return nil, fmt.Errorf("recipe %d: %w: %s", i, ErrDuplicateRecipe, cp.ID)
		}
		if !cp.Matchable() {
			c.warnings = append(c.warnings, fmt.Sprintf("recipe %s has an empty shape and will never match", cp.ID))
		}
		c.recipes = append(c.recipes, &cp)
		c.byID[cp.ID] = &cp
	}
	return c, nil
}

// Lookup retrieves a recipe by ID. Returns nil if not found.
func (c *Catalog) Lookup(id RecipeID) *Recipe {
	return c.byID[id]
}

// All returns the recipes in catalog order. The recipes are shared with
// the catalog and must not be modified.
func (c *Catalog) All() []*Recipe {
	result := make([]*Recipe, len(c.recipes))
	copy(result, c.recipes)
	return result
}

// Len returns the number of recipes.
func (c *Catalog) Len() int { return len(c.recipes) }

// Warnings lists non-fatal problems found while building the catalog.
func (c *Catalog) Warnings() []string {
	return append([]string(nil), c.warnings...)
}
