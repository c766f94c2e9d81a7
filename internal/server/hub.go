package server

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gravitas-games/dotforge/pkg/models"
)

var (
	// ErrAlreadyConnected is returned when a player opens a second connection.
	ErrAlreadyConnected = errors.New("player already connected")
	// ErrServerFull is returned when max_players are connected.
	ErrServerFull = errors.New("server is full")
)

// Hub tracks the players currently connected to the server
type Hub struct {
	CreatedAt time.Time

	players    map[string]*models.Player // playerID -> Player
	maxPlayers int
	mu         sync.RWMutex
}

// HubStatus is reported by the health endpoint
type HubStatus struct {
	PlayerCount int   `json:"player_count"`
	MaxPlayers  int   `json:"max_players"`
	BenchCount  int   `json:"bench_count"`
	Uptime      int64 `json:"uptime"` // seconds
}

// NewHub creates an empty hub
func NewHub(maxPlayers int) *Hub {
	return &Hub{
		CreatedAt:  time.Now(),
		players:    make(map[string]*models.Player),
		maxPlayers: maxPlayers,
	}
}

// Join marks a player connected
func (h *Hub) Join(player *models.Player) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.players[player.ID]; exists {
		return ErrAlreadyConnected
	}
	if h.maxPlayers > 0 && len(h.players) >= h.maxPlayers {
		return ErrServerFull
	}

	player.Connected = true
	player.ConnectedAt = time.Now()
	player.LastSeen = player.ConnectedAt
	h.players[player.ID] = player

	log.Printf("Player %s (%s) connected", player.Username, player.ID)
	return nil
}

// Leave marks a player disconnected
func (h *Hub) Leave(playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if player, exists := h.players[playerID]; exists {
		player.Connected = false
		delete(h.players, playerID)
		log.Printf("Player %s (%s) disconnected", player.Username, playerID)
	}
}

// GetPlayer retrieves a connected player by ID
func (h *Hub) GetPlayer(playerID string) (*models.Player, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	player, exists := h.players[playerID]
	return player, exists
}

// Count returns the number of connected players
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.players)
}

// Status returns the current hub status; benches is filled by the caller.
func (h *Hub) Status(benches int) HubStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return HubStatus{
		PlayerCount: len(h.players),
		MaxPlayers:  h.maxPlayers,
		BenchCount:  benches,
		Uptime:      int64(time.Since(h.CreatedAt).Seconds()),
	}
}
