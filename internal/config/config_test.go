package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	doc := "server:\n  host: 127.0.0.1\ncrafting:\n  catalog_path: ./recipes.yaml\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Fatalf("expected default port, got %s", cfg.Addr())
	}
	if cfg.Crafting.GridSize != 5 || cfg.Crafting.InitialDots != 10 {
		t.Fatalf("expected crafting defaults, got %+v", cfg.Crafting)
	}
	if cfg.Crafting.ConsumptionChance != 1.0 {
		t.Fatalf("expected full consumption by default, got %g", cfg.Crafting.ConsumptionChance)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Fatalf("expected 30m idle timeout, got %s", cfg.Session.IdleTimeout)
	}
	if cfg.Crafting.CatalogPath != "./recipes.yaml" {
		t.Fatalf("expected catalog path from file, got %q", cfg.Crafting.CatalogPath)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("DOTFORGE_GRID_SIZE", "7")
	t.Setenv("DOTFORGE_INITIAL_DOTS", "3")
	t.Setenv("DOTFORGE_IDLE_TIMEOUT", "90s")

	cfg, err := Parse([]byte("crafting:\n  grid_size: 5\n"))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if cfg.Crafting.GridSize != 7 || cfg.Crafting.InitialDots != 3 {
		t.Fatalf("expected env overrides, got %+v", cfg.Crafting)
	}
	if cfg.Session.IdleTimeout != 90*time.Second {
		t.Fatalf("expected 90s idle timeout, got %s", cfg.Session.IdleTimeout)
	}
}

func TestValidateRejectsBadCrafting(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"negative grid", "crafting:\n  grid_size: -1\n", "grid_size"},
		{"negative dots", "crafting:\n  initial_dots: -4\n", "initial_dots"},
		{"chance above one", "crafting:\n  consumption_chance: 1.5\n", "consumption_chance"},
		{"negative chance", "crafting:\n  consumption_chance: -0.5\n", "consumption_chance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}
