package network

import (
	"encoding/json"

	"github.com/gravitas-games/dotforge/internal/workbench"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

// Message types - Client → Server
const (
	MsgTypeToggle     = "toggle"
	MsgTypeConfirm    = "confirm"
	MsgTypeReset      = "reset"
	MsgTypePickup     = "pickup"
	MsgTypeSalvage    = "salvage"
	MsgTypeState      = "state"
	MsgTypeRecipes    = "recipes"
	MsgTypeListArmory = "armory"
	MsgTypePing       = "ping"
)

// Message types - Server → Client
const (
	MsgTypeWelcome     = "welcome"
	MsgTypeBenchState  = "bench_state"
	MsgTypeToggled     = "toggled"
	MsgTypeCraftResult = "craft_result"
	MsgTypeRecipeList  = "recipes"
	MsgTypeArmory      = "armory"
	MsgTypeError       = "error"
	MsgTypePong        = "pong"
)

// Error codes
const (
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnknownType    = "unknown_message_type"
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeNotFound       = "not_found"
	ErrCodeRejected       = "rejected"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// --- Client Message Payloads ---

// TogglePayload places or takes back the dot at a cell
type TogglePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PickupPayload credits dots collected in the world
type PickupPayload struct {
	Amount int `json:"amount"`
}

// SalvagePayload breaks down a stored weapon
type SalvagePayload struct {
	WeaponID string `json:"weapon_id"`
}

// --- Server Message Payloads ---

// WelcomePayload is sent to client after successful connection
type WelcomePayload struct {
	PlayerID string          `json:"player_id"`
	Username string          `json:"username"`
	Bench    workbench.State `json:"bench"`
	Recipes  []RecipeInfo    `json:"recipes"`
}

// ToggledPayload reports the outcome of a toggle
type ToggledPayload struct {
	X       int             `json:"x"`
	Y       int             `json:"y"`
	Changed bool            `json:"changed"`
	Bench   workbench.State `json:"bench"`
}

// CraftResultPayload reports the outcome of a confirm or reset
type CraftResultPayload struct {
	Result        string            `json:"result"` // "crafted" or "refunded"
	RecipeID      string            `json:"recipe_id,omitempty"`
	Anchor        *crafting.Point   `json:"anchor,omitempty"`
	UnitsReturned int               `json:"units_returned"`
	NearMisses    int               `json:"near_misses,omitempty"`
	Weapon        *workbench.Weapon `json:"weapon,omitempty"`
	Bench         workbench.State   `json:"bench"`
}

// ArmoryPayload lists stored weapons, plus the dots a salvage returned
type ArmoryPayload struct {
	Weapons  []workbench.Weapon `json:"weapons"`
	Salvaged int                `json:"salvaged,omitempty"`
	Bench    workbench.State    `json:"bench"`
}

// RecipeInfo describes one catalog entry
type RecipeInfo struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Kind            string           `json:"kind,omitempty"`
	Shape           []crafting.Point `json:"shape"`
	Damage          float64          `json:"damage,omitempty"`
	AttackRate      float64          `json:"attack_rate,omitempty"`
	ProjectileSpeed float64          `json:"projectile_speed,omitempty"`
	Durability      int              `json:"durability,omitempty"`
	Salvage         int              `json:"salvage,omitempty"`
}

// RecipeListPayload lists the catalog in priority order
type RecipeListPayload struct {
	Recipes []RecipeInfo `json:"recipes"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewRecipeList converts a catalog into wire form, keeping catalog order.
func NewRecipeList(c *crafting.Catalog) []RecipeInfo {
	recipes := c.All()
	out := make([]RecipeInfo, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, RecipeInfo{
			ID:              string(r.ID),
			Name:            r.Name,
			Kind:            string(r.Kind),
			Shape:           append([]crafting.Point(nil), r.Shape...),
			Damage:          r.Damage,
			AttackRate:      r.AttackRate,
			ProjectileSpeed: r.ProjectileSpeed,
			Durability:      r.Durability,
			Salvage:         r.Salvage,
		})
	}
	return out
}

// NewCraftResult converts a confirm outcome into wire form.
func NewCraftResult(res crafting.Result, weapon *workbench.Weapon, state workbench.State) CraftResultPayload {
	p := CraftResultPayload{
		Result:        res.Kind.String(),
		UnitsReturned: res.UnitsReturned,
		NearMisses:    res.NearMisses,
		Weapon:        weapon,
		Bench:         state,
	}
	if res.Crafted() {
		anchor := res.Anchor
		p.RecipeID = string(res.RecipeID)
		p.Anchor = &anchor
	}
	return p
}
