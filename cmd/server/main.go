package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravitas-games/dotforge/internal/config"
	"github.com/gravitas-games/dotforge/internal/server"
	"github.com/gravitas-games/dotforge/pkg/crafting"
)

func main() {
	log.Println("Starting dotforge server...")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded from %s", configPath)

	catalog, err := loadCatalog(cfg.Crafting.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load recipes: %v", err)
	}

	srv, err := server.New(cfg, catalog)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		addr := cfg.Addr()
		log.Printf("Server listening on %s", addr)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	if err := srv.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// loadCatalog reads recipes from path, or falls back to the built-in set.
func loadCatalog(path string) (*crafting.Catalog, error) {
	if path == "" {
		log.Println("No catalog_path configured, using built-in recipes")
		return crafting.DefaultCatalog(), nil
	}
	catalog, err := crafting.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	for _, w := range catalog.Warnings() {
		log.Printf("Recipe warning: %s", w)
	}
	log.Printf("Loaded %d recipes from %s", catalog.Len(), path)
	return catalog, nil
}
