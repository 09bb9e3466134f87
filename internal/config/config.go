// ABOUTME: Nutrition configuration management with backend selection.
// ABOUTME: Handles settings, the storage backend factory, and catalog loading.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/harperreed/nutrition/internal/catalog"
	"github.com/harperreed/nutrition/internal/logger"
	"github.com/harperreed/nutrition/internal/storage"
)

// Backend names accepted in config.
const (
	BackendSQLite = "sqlite"
	BackendKV     = "kv"
)

// Config stores nutrition tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "kv".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts nutrition.db here. The kv backend uses a kv/ folder here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/nutrition.
	DataDir string `json:"data_dir,omitempty"`

	// UserID is the ledger user the CLI and MCP server act as. Defaults to 1.
	UserID int64 `json:"user_id,omitempty"`

	// CatalogPath optionally replaces the built-in food table with a YAML file.
	CatalogPath string `json:"catalog_path,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetUserID returns the configured user, defaulting to 1.
func (c *Config) GetUserID() int64 {
	if c.UserID == 0 {
		return 1
	}
	return c.UserID
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// StoragePath returns where the configured backend keeps its data:
// the SQLite file, or the kv directory.
func (c *Config) StoragePath() string {
	if c.GetBackend() == BackendKV {
		return filepath.Join(c.GetDataDir(), "kv")
	}
	return filepath.Join(c.GetDataDir(), "nutrition.db")
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(log *logger.Logger) (storage.Repository, error) {
	backend := c.GetBackend()
	path := c.StoragePath()
	log = logger.OrNop(log)

	switch backend {
	case BackendSQLite:
		log.Info("opening storage", "backend", backend, "path", path)
		return storage.Open(path)
	case BackendKV:
		log.Info("opening storage", "backend", backend, "path", path)
		return storage.OpenKV(path, log)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// LoadCatalog returns the configured food catalog, or the built-in one.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default()
	}
	return catalog.Load(ExpandPath(c.CatalogPath))
}

// Set updates a single field by its JSON name.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		if value != BackendSQLite && value != BackendKV {
			return fmt.Errorf("invalid backend %q (use %s or %s)", value, BackendSQLite, BackendKV)
		}
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "user_id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid user_id %q (use a positive integer)", value)
		}
		c.UserID = id
	case "catalog_path":
		c.CatalogPath = value
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error":
			c.LogLevel = value
		default:
			return fmt.Errorf("invalid log_level %q (use debug, info, warn or error)", value)
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nutrition", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
