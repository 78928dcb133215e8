// Package main runs the DeckVault API server: a card catalog browser
// backed by Scryfall and a deck collection persisted in SQLite.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/deckvault/deckvault/internal/api"
	"github.com/deckvault/deckvault/internal/config"
	"github.com/deckvault/deckvault/internal/deck"
	"github.com/deckvault/deckvault/internal/scryfall"
	"github.com/deckvault/deckvault/internal/storage"
)

var (
	configPath = flag.String("config", "", "Config file path (default: ~/.deckvault/config.toml)")
	dbPath     = flag.String("db-path", "", "Database path override; empty string with the flag set disables persistence")
	addr       = flag.String("addr", "", "Listen address override, host:port")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.App.DebugMode || *debug)
	slog.SetDefault(logger)

	serverAddr := cfg.Addr()
	if *addr != "" {
		serverAddr = *addr
	}

	var deckService *deck.Service
	if cfg.PersistenceEnabled() {
		db, err := openDatabase(cfg.Database.Path)
		if err != nil {
			logger.Error("failed to open database", "path", cfg.Database.Path, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("error closing database", "error", err)
			}
		}()
		logger.Info("database opened", "path", cfg.Database.Path)
		deckService = deck.NewService(db, logger)
	} else {
		logger.Warn("no database path configured, deck persistence disabled")
	}

	client := newScryfallClient(cfg)

	server := api.NewServer(&api.Config{
		Addr:     serverAddr,
		PageSize: cfg.App.PageSize,
	}, client, deckService, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flagWasSet("db-path") {
		cfg.Database.Path = *dbPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func newLogger(debugMode bool) *slog.Logger {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openDatabase(path string) (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	dbConfig := storage.DefaultConfig(path)
	dbConfig.AutoMigrate = true
	return storage.Open(dbConfig)
}

func newScryfallClient(cfg *config.Config) *scryfall.Client {
	if cfg.Scryfall.BaseURL != "" {
		return scryfall.NewClientWithBaseURL(cfg.Scryfall.BaseURL)
	}
	return scryfall.NewClient()
}
