package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Crafting CraftingConfig `yaml:"crafting"`
}

// ServerConfig holds server-specific settings
type ServerConfig struct {
	Host string `yaml:"host" env:"DOTFORGE_HOST"`
	Port int    `yaml:"port" env:"DOTFORGE_PORT"`
}

// JWTConfig holds JWT authentication settings
type JWTConfig struct {
	Issuer              string `yaml:"issuer" env:"DOTFORGE_JWT_ISSUER"`
	PublicKeyURL        string `yaml:"public_key_url" env:"DOTFORGE_JWT_PUBLIC_KEY_URL"`
	PublicKeyRefreshHrs int    `yaml:"public_key_refresh_hours" env:"DOTFORGE_JWT_PUBLIC_KEY_REFRESH_HOURS"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Address         string `yaml:"address" env:"DOTFORGE_REDIS_ADDRESS"`
	Password        string `yaml:"password" env:"DOTFORGE_REDIS_PASSWORD"`
	DB              int    `yaml:"db" env:"DOTFORGE_REDIS_DB"`
	BlacklistPrefix string `yaml:"blacklist_prefix" env:"DOTFORGE_REDIS_BLACKLIST_PREFIX"`
}

// SessionConfig holds workbench hosting settings
type SessionConfig struct {
	MaxPlayers  int           `yaml:"max_players" env:"DOTFORGE_MAX_PLAYERS"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"DOTFORGE_IDLE_TIMEOUT"`
}

// CraftingConfig holds crafting engine settings
type CraftingConfig struct {
	GridSize    int    `yaml:"grid_size" env:"DOTFORGE_GRID_SIZE"`
	InitialDots int    `yaml:"initial_dots" env:"DOTFORGE_INITIAL_DOTS"`
	CatalogPath string `yaml:"catalog_path" env:"DOTFORGE_CATALOG_PATH"`
	// ConsumptionChance is the probability that placing a dot spends it.
	ConsumptionChance float64 `yaml:"consumption_chance" env:"DOTFORGE_CONSUMPTION_CHANCE"`
	Seed              int64   `yaml:"seed" env:"DOTFORGE_SEED"`
	MaxPickup         int     `yaml:"max_pickup" env:"DOTFORGE_MAX_PICKUP"`
}

// Load reads configuration from a YAML file, then applies DOTFORGE_*
// environment overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and
// defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, for hosts
// that run without a config file.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.JWT.PublicKeyRefreshHrs == 0 {
		cfg.JWT.PublicKeyRefreshHrs = 24
	}
	if cfg.Redis.BlacklistPrefix == "" {
		cfg.Redis.BlacklistPrefix = "blacklist:"
	}
	if cfg.Session.MaxPlayers == 0 {
		cfg.Session.MaxPlayers = 100
	}
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = 30 * time.Minute
	}
	if cfg.Crafting.GridSize == 0 {
		cfg.Crafting.GridSize = 5
	}
	if cfg.Crafting.InitialDots == 0 {
		cfg.Crafting.InitialDots = 10
	}
	if cfg.Crafting.ConsumptionChance == 0 {
		cfg.Crafting.ConsumptionChance = 1.0
	}
	if cfg.Crafting.MaxPickup == 0 {
		cfg.Crafting.MaxPickup = 10
	}
}

// Validate rejects settings the engine cannot run with.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Crafting.GridSize < 1 {
		errs = append(errs, fmt.Errorf("crafting.grid_size must be at least 1, got %d", cfg.Crafting.GridSize))
	}
	if cfg.Crafting.InitialDots < 0 {
		errs = append(errs, fmt.Errorf("crafting.initial_dots cannot be negative, got %d", cfg.Crafting.InitialDots))
	}
	if c := cfg.Crafting.ConsumptionChance; c <= 0 || c > 1 {
		errs = append(errs, fmt.Errorf("crafting.consumption_chance must be in (0, 1], got %g", c))
	}
	if cfg.Crafting.MaxPickup < 1 {
		errs = append(errs, fmt.Errorf("crafting.max_pickup must be positive, got %d", cfg.Crafting.MaxPickup))
	}
	if cfg.Session.MaxPlayers < 1 {
		errs = append(errs, fmt.Errorf("session.max_players must be positive, got %d", cfg.Session.MaxPlayers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (cfg *Config) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
}
