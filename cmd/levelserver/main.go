package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/gridwalk/internal/config"
	"github.com/lawnchairsociety/gridwalk/internal/logger"
	"github.com/lawnchairsociety/gridwalk/internal/server"
	"github.com/lawnchairsociety/gridwalk/internal/store"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/gridwalk.yaml", "Path to service config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "Path to SQLite level database (overrides config)")
	dsn := flag.String("dsn", "", "PostgreSQL connection string (overrides config, switches driver)")
	createKey := flag.String("create-key", "", "Create an API key with this name, print the secret, and exit")
	flag.Parse()

	// Handle --create-key flag (creates the key and exits)
	if *createKey != "" {
		handleCreateKey(*createKey, *configFile, *dbPath, *dsn)
		return
	}

	// Initialize logger first (before any logging)
	logConfig, _ := logger.LoadConfig(*loggingConfig)
	logger.Initialize(logConfig)

	logger.Info("Starting Gridwalk level server")

	// Load service config
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		logger.Warning("Failed to load service config, using defaults", "path", *configFile, "error", err)
	}
	applyOverrides(cfg, *addr, *dbPath, *dsn)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Open the level store
	st, err := store.Open(store.Config{
		Driver: cfg.Store.Driver,
		Path:   cfg.Store.Path,
		DSN:    cfg.Store.DSN,
	})
	if err != nil {
		log.Fatalf("Failed to open level store: %v", err)
	}
	defer st.Close()
	logger.Info("Level store initialized", "driver", cfg.Store.Driver)

	// Create and start the server
	srv := server.NewServer(cfg, st)

	if len(cfg.Server.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.Server.AllowedOrigins)
	}

	if !cfg.Server.RequireAuth {
		logger.Info("Server running in OPEN MODE - clients may generate levels without an API key")
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Level server running", "addr", cfg.Server.ListenAddr)
	logger.Info("Press Ctrl+C to shutdown")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	srv.Shutdown()
	logger.Info("Server stopped")
}

// applyOverrides layers flag values over the loaded config
func applyOverrides(cfg *config.ServiceConfig, addr, dbPath, dsn string) {
	if addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if dbPath != "" {
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = dbPath
	}
	if dsn != "" {
		cfg.Store.Driver = "postgres"
		cfg.Store.DSN = dsn
	}
}

// handleCreateKey creates an API key with a fresh secret and exits
func handleCreateKey(name, configFile, dbPath, dsn string) {
	cfg, _ := config.LoadConfig(configFile)
	applyOverrides(cfg, "", dbPath, dsn)

	st, err := store.Open(store.Config{
		Driver: cfg.Store.Driver,
		Path:   cfg.Store.Path,
		DSN:    cfg.Store.DSN,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open level store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	secret, err := generateSecret()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to generate secret: %v\n", err)
		os.Exit(1)
	}

	if _, err := st.CreateAPIKey(name, secret); err != nil {
		if errors.Is(err, store.ErrKeyExists) {
			fmt.Fprintf(os.Stderr, "Error: API key '%s' already exists\n", name)
		} else {
			fmt.Fprintf(os.Stderr, "Error: Failed to create API key: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("API key '%s' created.\n", name)
	fmt.Printf("Secret (shown only once): %s\n", secret)
}

// generateSecret returns a hex-encoded 256-bit random secret
func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
