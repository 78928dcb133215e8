// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig `toml:"server"`

	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// Scryfall API configuration
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"` // Listen address
	Port int    `toml:"port"` // Listen port
}

// DatabaseConfig contains deck persistence settings.
type DatabaseConfig struct {
	// Path to the SQLite database file. Empty disables persistence:
	// card browsing keeps working, deck endpoints answer 503.
	Path string `toml:"path"`
}

// ScryfallConfig contains card API settings.
type ScryfallConfig struct {
	BaseURL string `toml:"base_url"` // API root, empty for the public API
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
	PageSize  int  `toml:"page_size"`  // Default cards per page
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: defaultDatabasePath(),
		},
		Scryfall: ScryfallConfig{
			BaseURL: "",
		},
		App: AppConfig{
			DebugMode: false,
			PageSize:  20,
		},
	}
}

func defaultDatabasePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "deckvault.db"
	}
	return filepath.Join(homeDir, ".deckvault", "deckvault.db")
}

func configPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".deckvault")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads the configuration from disk, then applies environment
// overrides. Returns the default config if no file exists.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file, defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides file values with environment variables where set.
func (c *Config) applyEnv() {
	if v := os.Getenv("DECKVAULT_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("DECKVAULT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v, ok := os.LookupEnv("DECKVAULT_DB_PATH"); ok {
		c.Database.Path = v
	}
	if v := os.Getenv("DECKVAULT_SCRYFALL_URL"); v != "" {
		c.Scryfall.BaseURL = v
	}
	if v := os.Getenv("DECKVAULT_DEBUG"); v != "" {
		c.App.DebugMode = v == "1" || v == "true"
	}
}

// Save saves the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.App.PageSize < 1 {
		return fmt.Errorf("page size must be positive: %d", c.App.PageSize)
	}
	return nil
}

// Addr returns the host:port the server should listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// PersistenceEnabled reports whether a database path is configured.
func (c *Config) PersistenceEnabled() bool {
	return c.Database.Path != ""
}
