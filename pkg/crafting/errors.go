package crafting

import "errors"

var (
	// ErrInvalidGridSize is returned when a grid dimension is below 1.
	ErrInvalidGridSize = errors.New("grid size must be at least 1")
	// ErrNegativePool is returned when a pool is created with a negative count.
	ErrNegativePool = errors.New("initial dot count cannot be negative")
	// ErrNilCatalog is returned when a session is created without a catalog.
	ErrNilCatalog = errors.New("catalog cannot be nil")
	// ErrDuplicateRecipe is returned when two recipes share an ID.
	ErrDuplicateRecipe = errors.New("duplicate recipe id")
	// ErrInvalidRecipe is returned for recipes that fail validation.
	ErrInvalidRecipe = errors.New("invalid recipe")
)
