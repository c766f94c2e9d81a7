package workbench

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

// ErrWeaponNotFound is returned for unknown weapon IDs.
var ErrWeaponNotFound = errors.New("weapon not found")

// Weapon is a crafted artifact held by a player. Durability is the
// remaining number of uses; zero means the weapon never breaks.
type Weapon struct {
	ID         string            `json:"id"`
	Recipe     crafting.RecipeID `json:"recipe"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind,omitempty"`
	Damage     float64           `json:"damage,omitempty"`
	Durability int               `json:"durability"`
	Salvage    int               `json:"salvage"`
	CraftedAt  time.Time         `json:"crafted_at"`
}

// Armory holds the weapons a player has crafted, in crafting order.
// It is not safe for concurrent use; Bench guards it.
type Armory struct {
	weapons []*Weapon
}

// NewArmory creates an empty armory.
func NewArmory() *Armory {
	return &Armory{}
}

// Add stores a freshly crafted weapon for recipe r.
func (a *Armory) Add(r *crafting.Recipe) *Weapon {
	w := &Weapon{
		ID:         uuid.NewString(),
		Recipe:     r.ID,
		Name:       r.Name,
		Kind:       string(r.Kind),
		Damage:     r.Damage,
		Durability: r.Durability,
		Salvage:    r.Salvage,
		CraftedAt:  time.Now(),
	}
	a.weapons = append(a.weapons, w)
	return w
}

// List returns copies of the stored weapons.
func (a *Armory) List() []Weapon {
	out := make([]Weapon, len(a.weapons))
	for i, w := range a.weapons {
		out[i] = *w
	}
	return out
}

// Len returns the number of stored weapons.
func (a *Armory) Len() int { return len(a.weapons) }

// Wear spends uses of a weapon's durability. When durability runs out the
// weapon is removed and broken is true; the caller owns the salvage value.
// Unbreakable weapons are never removed.
func (a *Armory) Wear(id string, uses int) (w Weapon, broken bool, err error) {
	if uses <= 0 {
		return Weapon{}, false, fmt.Errorf("uses must be positive, got %d", uses)
	}
	i, ok := a.index(id)
	if !ok {
		return Weapon{}, false, ErrWeaponNotFound
	}
	stored := a.weapons[i]
	if stored.Durability == 0 {
		return *stored, false, nil
	}
	stored.Durability -= uses
	if stored.Durability > 0 {
		return *stored, false, nil
	}
	stored.Durability = 0
	a.remove(i)
	return *stored, true, nil
}

// Take removes a weapon and returns it.
func (a *Armory) Take(id string) (Weapon, error) {
	i, ok := a.index(id)
	if !ok {
		return Weapon{}, ErrWeaponNotFound
	}
	w := *a.weapons[i]
	a.remove(i)
	return w, nil
}

func (a *Armory) index(id string) (int, bool) {
	for i, w := range a.weapons {
		if w.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (a *Armory) remove(i int) {
	a.weapons = append(a.weapons[:i], a.weapons[i+1:]...)
}
