package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/gravitas-games/dotforge/internal/config"
	"github.com/gravitas-games/dotforge/internal/console"
	"github.com/gravitas-games/dotforge/internal/workbench"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

func main() {
	log.SetOutput(os.Stderr)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
	} else if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	catalog := crafting.DefaultCatalog()
	if cfg.Crafting.CatalogPath != "" {
		catalog, err = crafting.LoadCatalog(cfg.Crafting.CatalogPath)
		if err != nil {
			log.Fatalf("Failed to load recipes: %v", err)
		}
		for _, w := range catalog.Warnings() {
			log.Printf("Recipe warning: %s", w)
		}
	}

	opts := workbench.Options{
		GridSize:          cfg.Crafting.GridSize,
		InitialDots:       cfg.Crafting.InitialDots,
		ConsumptionChance: cfg.Crafting.ConsumptionChance,
		Seed:              cfg.Crafting.Seed,
	}
	if os.Getenv("DOTFORGE_DEBUG") != "" {
		opts.Logger = log.New(os.Stderr, "crafting: ", log.LstdFlags)
	}

	owner := os.Getenv("USER")
	if owner == "" {
		owner = "local"
	}
	bench, err := workbench.New(owner, catalog, opts)
	if err != nil {
		log.Fatalf("Failed to create bench: %v", err)
	}

	c := console.New(bench, os.Stdout)
	defer c.Close()
	if err := c.Run(context.Background(), os.Stdin); err != nil {
		log.Fatalf("Console error: %v", err)
	}
}
