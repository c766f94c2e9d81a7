package models

import "time"

// Player is an authenticated crafter and the bench they craft on.
type Player struct {
	ID       string `json:"id"` // JWT user_id, as a decimal string
	Username string `json:"username"`
	// Activated is the JWT activation claim: a timestamp once activated,
	// 0 before activation and -1 when banned.
	Activated int64 `json:"activated"`

	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`
	LastSeen    time.Time `json:"last_seen"`

	// BenchID is set once the player's bench is opened.
	BenchID string `json:"bench_id,omitempty"`
}

// IsActive reports whether the account is activated and not banned.
func (p *Player) IsActive() bool {
	return p.Activated > 0
}

// IsBanned reports whether the account is banned.
func (p *Player) IsBanned() bool {
	return p.Activated == -1
}

// Touch records activity from the player.
func (p *Player) Touch() {
	p.LastSeen = time.Now()
}
