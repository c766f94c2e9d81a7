package crafting

// ResultKind tells the host which way a confirm went.
type ResultKind int

const (
	// ResultRefunded means no pure match was found and the grid was refunded.
	ResultRefunded ResultKind = iota
	// ResultCrafted means a recipe consumed the grid.
	ResultCrafted
)

func (k ResultKind) String() string {
	switch k {
	case ResultCrafted:
		return "crafted"
	case ResultRefunded:
		return "refunded"
	default:
		return "unknown"
	}
}

// Result is returned by Session.Confirm.
type Result struct {
	Kind ResultKind

	// Set for ResultCrafted.
	RecipeID RecipeID
	Recipe   *Recipe
	Anchor   Point

	// Set for ResultRefunded.
	UnitsReturned int

	// NearMisses counts shapes that fit but were rejected as impure.
	NearMisses int
}

// Crafted reports whether the confirm produced an artifact.
func (r Result) Crafted() bool { return r.Kind == ResultCrafted }
