package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gravitas-games/dotforge/internal/network"
	"github.com/gravitas-games/dotforge/internal/workbench"
	"github.com/gravitas-games/dotforge/pkg/crafting"
	"github.com/gravitas-games/dotforge/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	ws     *websocket.Conn
	server *Server
	player *models.Player

	// Buffered channel for outbound messages
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

// NewConnection creates a connection for an authenticated player
func NewConnection(ws *websocket.Conn, server *Server, player *models.Player) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		player: player,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
	}
}

// Handle manages the connection lifecycle
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	c.sendWelcome()

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the bench
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			log.Printf("Failed to parse client message: %v", err)
			c.SendError(network.ErrCodeInvalidMessage, "Failed to parse message")
			continue
		}

		c.player.Touch()
		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error: %v", err)
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-c.server.ctx.Done():
			return
		}
	}
}

// handleMessage routes messages to the player's bench
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	switch msg.Type {
	case network.MsgTypeToggle:
		c.handleToggle(msg.Payload)

	case network.MsgTypeConfirm:
		c.handleConfirm()

	case network.MsgTypeReset:
		c.handleReset()

	case network.MsgTypePickup:
		c.handlePickup(msg.Payload)

	case network.MsgTypeSalvage:
		c.handleSalvage(msg.Payload)

	case network.MsgTypeState:
		c.withBench(func(b *workbench.Bench) {
			c.reply(network.MsgTypeBenchState, b.State())
		})

	case network.MsgTypeListArmory:
		c.withBench(func(b *workbench.Bench) {
			c.reply(network.MsgTypeArmory, network.ArmoryPayload{Weapons: b.Weapons(), Bench: b.State()})
		})

	case network.MsgTypeRecipes:
		c.reply(network.MsgTypeRecipeList, network.RecipeListPayload{
			Recipes: network.NewRecipeList(c.server.registry.Catalog()),
		})

	case network.MsgTypePing:
		c.reply(network.MsgTypePong, map[string]interface{}{"timestamp": time.Now().Unix()})

	default:
		log.Printf("Unknown message type from %s: %s", c.player.Username, msg.Type)
		c.SendError(network.ErrCodeUnknownType, fmt.Sprintf("Unknown message type %q", msg.Type))
	}
}

// withBench runs fn against the player's bench while the registry holds it.
func (c *Connection) withBench(fn func(b *workbench.Bench)) {
	err := c.server.registry.With(c.player.ID, func(b *workbench.Bench) {
		c.player.BenchID = b.ID
		fn(b)
	})
	if err != nil {
		c.SendError(network.ErrCodeRejected, err.Error())
	}
}

func (c *Connection) sendWelcome() {
	c.withBench(func(b *workbench.Bench) {
		c.reply(network.MsgTypeWelcome, network.WelcomePayload{
			PlayerID: c.player.ID,
			Username: c.player.Username,
			Bench:    b.State(),
			Recipes:  network.NewRecipeList(b.Catalog()),
		})
	})
}

func (c *Connection) handleToggle(payload json.RawMessage) {
	var p network.TogglePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError(network.ErrCodeInvalidPayload, "Invalid toggle payload")
		return
	}
	c.withBench(func(b *workbench.Bench) {
		changed, state := b.Toggle(p.X, p.Y)
		c.reply(network.MsgTypeToggled, network.ToggledPayload{X: p.X, Y: p.Y, Changed: changed, Bench: state})
	})
}

func (c *Connection) handleConfirm() {
	c.withBench(func(b *workbench.Bench) {
		res, weapon, state := b.Confirm()
		if res.Crafted() {
			log.Printf("%s crafted %s at %s", c.player.Username, res.RecipeID, res.Anchor)
		}
		c.reply(network.MsgTypeCraftResult, network.NewCraftResult(res, weapon, state))
	})
}

func (c *Connection) handleReset() {
	c.withBench(func(b *workbench.Bench) {
		units, state := b.Reset()
		res := crafting.Result{Kind: crafting.ResultRefunded, UnitsReturned: units}
		c.reply(network.MsgTypeCraftResult, network.NewCraftResult(res, nil, state))
	})
}

// handlePickup credits collected dots, capped at crafting.max_pickup.
func (c *Connection) handlePickup(payload json.RawMessage) {
	var p network.PickupPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError(network.ErrCodeInvalidPayload, "Invalid pickup payload")
		return
	}
	amount := min(p.Amount, c.server.config.Crafting.MaxPickup)
	c.withBench(func(b *workbench.Bench) {
		ok, state := b.Credit(amount)
		if !ok {
			c.SendError(network.ErrCodeRejected, fmt.Sprintf("Pickup amount must be positive, got %d", p.Amount))
			return
		}
		c.reply(network.MsgTypeBenchState, state)
	})
}

func (c *Connection) handleSalvage(payload json.RawMessage) {
	var p network.SalvagePayload
	if err := json.Unmarshal(payload, &p); err != nil || p.WeaponID == "" {
		c.SendError(network.ErrCodeInvalidPayload, "Invalid salvage payload")
		return
	}
	c.withBench(func(b *workbench.Bench) {
		_, units, err := b.Salvage(p.WeaponID)
		if errors.Is(err, workbench.ErrWeaponNotFound) {
			c.SendError(network.ErrCodeNotFound, fmt.Sprintf("No weapon %s", p.WeaponID))
			return
		}
		if err != nil {
			c.SendError(network.ErrCodeRejected, err.Error())
			return
		}
		c.reply(network.MsgTypeArmory, network.ArmoryPayload{
			Weapons:  b.Weapons(),
			Salvaged: units,
			Bench:    b.State(),
		})
	})
}

func (c *Connection) reply(msgType string, payload interface{}) {
	c.SendMessage(&network.ServerMessage{Type: msgType, Payload: payload})
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return
	}

	select {
	case <-c.done:
	case c.send <- data:
	default:
		log.Printf("Send buffer full, dropping %s for %s", msg.Type, c.player.Username)
	}
}

// SendError sends an error message to the client
func (c *Connection) SendError(code, message string) {
	c.reply(network.MsgTypeError, network.ErrorPayload{
		Code:    code,
		Message: message,
	})
}

// Close stops the write pump; the socket closes once it drains. Safe to
// call more than once.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
