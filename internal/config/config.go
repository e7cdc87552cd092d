package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Backend names accepted in [store] backend.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Store     StoreConfig     `toml:"store"`
	Migration MigrationConfig `toml:"migration"`
	Log       LogConfig       `toml:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StoreConfig selects and locates the task store
type StoreConfig struct {
	Backend     string `toml:"backend"`
	Path        string `toml:"path"`
	DatabaseURL string `toml:"database_url"`
	// Strict makes a corrupt file-store document fail startup instead of resetting it.
	Strict bool `toml:"strict"`
}

// MigrationConfig points at the legacy JSON file imported into an empty relational store
type MigrationConfig struct {
	LegacyPath string `toml:"legacy_path"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":5000"},
		Store: StoreConfig{
			Backend: BackendSQLite,
			Path:    "tasks.db",
		},
		Migration: MigrationConfig{LegacyPath: "tarefas.json"},
		Log:       LogConfig{Level: "info"},
	}
}

// DefaultPath returns the standard config file location
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(homeDir, ".config", "tasks", "config.toml")
}

// Load reads configPath over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if _, err := toml.DecodeFile(configPath, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Migration.LegacyPath = expandPath(cfg.Migration.LegacyPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := getenv("TASKS_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("TASKS_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := getenv("TASKS_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Store.DatabaseURL = v
	}
	if v := getenv("TASKS_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TASKS_STRICT: %w", err)
		}
		c.Store.Strict = b
	}
	if v := getenv("TASKS_LEGACY_PATH"); v != "" {
		c.Migration.LegacyPath = v
	}
	if v := getenv("TASKS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks that the selected backend has what it needs
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("store.database_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
