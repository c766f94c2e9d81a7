package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/gravitas-games/dotforge/internal/config"
	"github.com/gravitas-games/dotforge/internal/workbench"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

// Server hosts crafting benches over WebSocket
type Server struct {
	config       *config.Config
	hub          *Hub
	registry     *workbench.Registry
	upgrader     websocket.Upgrader
	httpSrv      *http.Server
	jwtValidator *JWTValidator
	redis        *redis.Client

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a server that authenticates against the configured login
// server and checks revoked users in Redis.
func New(cfg *config.Config, catalog *crafting.Catalog) (*Server, error) {
	log.Println("Initializing server...")

	ctx, cancel := context.WithCancel(context.Background())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Connected to Redis")

	blacklist := NewRedisBlacklist(redisClient, cfg.Redis.BlacklistPrefix)
	jwtValidator, err := NewJWTValidator(ctx, cfg, blacklist)
	if err != nil {
		cancel()
		redisClient.Close()
		return nil, fmt.Errorf("failed to initialize JWT validator: %w", err)
	}

	srv := newServer(ctx, cancel, cfg, catalog, jwtValidator)
	srv.redis = redisClient

	log.Println("Server initialized successfully")
	return srv, nil
}

// NewWithValidator creates a server around an existing validator, without
// a Redis connection of its own.
func NewWithValidator(cfg *config.Config, catalog *crafting.Catalog, validator *JWTValidator) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return newServer(ctx, cancel, cfg, catalog, validator)
}

func newServer(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, catalog *crafting.Catalog, validator *JWTValidator) *Server {
	// Benches outlive connections, so only live connections are capped (by the hub).
	registry := workbench.NewRegistry(catalog, 0, workbench.Options{
		GridSize:          cfg.Crafting.GridSize,
		InitialDots:       cfg.Crafting.InitialDots,
		ConsumptionChance: cfg.Crafting.ConsumptionChance,
		Seed:              cfg.Crafting.Seed,
		Logger:            log.Default(),
	})

	srv := &Server{
		config:       cfg,
		hub:          NewHub(cfg.Session.MaxPlayers),
		registry:     registry,
		jwtValidator: validator,
		connections:  make(map[*Connection]bool),
		ctx:          ctx,
		cancel:       cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			Subprotocols:    []string{"access_token"},
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	go srv.sweepIdleBenches(cfg.Session.IdleTimeout)
	return srv
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start begins listening for connections
func (s *Server) Start(addr string) error {
	log.Printf("Starting WebSocket server on %s", addr)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("WebSocket endpoint: ws://%s/ws", addr)
	log.Printf("Health endpoint: http://%s/health", addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown() error {
	log.Println("Shutting down server...")

	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}

	s.connMu.Lock()
	for conn := range s.connections {
		conn.Close()
	}
	s.connMu.Unlock()

	// Return every dot still sitting on a grid before the process exits.
	s.registry.Sweep(0)

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// sweepIdleBenches refunds the grids of benches nobody has touched for idle
func (s *Server) sweepIdleBenches(idle time.Duration) {
	if idle <= 0 {
		return
	}
	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if settled := s.registry.Sweep(idle); len(settled) > 0 {
				log.Printf("Refunded grids on %d idle benches", len(settled))
			}
		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket authenticates and upgrades a connection request
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log.Printf("New WebSocket connection request from %s", r.RemoteAddr)

	tokenString := extractTokenFromHeader(r)
	if tokenString == "" {
		log.Printf("Missing JWT token from %s", r.RemoteAddr)
		http.Error(w, "Missing authentication token", http.StatusUnauthorized)
		return
	}

	player, err := s.jwtValidator.ValidateToken(r.Context(), tokenString)
	if err != nil {
		log.Printf("Invalid JWT token from %s: %v", r.RemoteAddr, err)
		http.Error(w, fmt.Sprintf("Invalid token: %v", err), http.StatusUnauthorized)
		return
	}

	log.Printf("Authenticated user: %s (%s) from %s", player.Username, player.ID, r.RemoteAddr)

	if err := s.hub.Join(player); err != nil {
		log.Printf("Rejected %s: %v", player.Username, err)
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	defer s.hub.Leave(player.ID)

	bench, err := s.registry.Open(player.ID)
	if err != nil {
		log.Printf("Failed to open bench for %s: %v", player.Username, err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	player.BenchID = bench.ID

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn := NewConnection(ws, s, player)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	log.Printf("WebSocket connection established: %s (%s)", player.Username, r.RemoteAddr)

	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	log.Printf("WebSocket connection closed: %s (%s)", player.Username, r.RemoteAddr)
}

// handleHealth reports liveness and load
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(struct {
		Status string `json:"status"`
		HubStatus
	}{"ok", s.hub.Status(s.registry.Len())})
}
