// ABOUTME: Sync configuration: which remote backend to use and how to reach it.
// ABOUTME: Read from sync.json, then overridden by MACROS_* environment variables.
package sync

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/macros/internal/remote"
	"github.com/joho/godotenv"
)

// Environment variables that override sync.json.
const (
	EnvBackend   = "MACROS_REMOTE_BACKEND"
	EnvRedisURL  = "MACROS_REDIS_URL"
	EnvKeyPrefix = "MACROS_KEY_PREFIX"
	EnvCharmHost = "MACROS_CHARM_HOST"
)

// Config stores sync settings.
type Config struct {
	Backend       string `json:"backend"`
	RedisURL      string `json:"redis_url,omitempty"`
	KeyPrefix     string `json:"key_prefix,omitempty"`
	CharmHost     string `json:"charm_host,omitempty"`
	CharmDB       string `json:"charm_db,omitempty"`
	RecordTimeout string `json:"record_timeout,omitempty"`
}

// ConfigDir returns the XDG config directory for macros.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "macros")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "macros")
}

// ConfigPath returns the path to the sync config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "sync.json")
}

// LoadConfig loads sync config from disk and applies environment
// overrides. A .env file in the working directory is loaded first when
// present. A missing sync.json yields an unconfigured Config.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read sync config: %w", err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse sync config: %w", err)
		}
	}

	cfg.applyEnv()
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv(EnvKeyPrefix); v != "" {
		c.KeyPrefix = v
	}
	if v := os.Getenv(EnvCharmHost); v != "" {
		c.CharmHost = v
	}
}

// SaveConfig persists sync config to disk.
func SaveConfig(cfg *Config) error {
	if err := os.MkdirAll(ConfigDir(), 0750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ConfigPath(), data, 0600)
}

// IsConfigured returns true if a remote backend is selected.
func (c *Config) IsConfigured() bool {
	return c.Backend != remote.BackendNone
}

// Timeout returns the per-record timeout, DefaultRecordTimeout when unset.
func (c *Config) Timeout() (time.Duration, error) {
	if c.RecordTimeout == "" {
		return DefaultRecordTimeout, nil
	}
	d, err := time.ParseDuration(c.RecordTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid record_timeout %q", c.RecordTimeout)
	}
	return d, nil
}

// RemoteOptions converts the config into remote.Open options.
func (c *Config) RemoteOptions(logger *log.Logger) remote.Options {
	return remote.Options{
		Backend:   c.Backend,
		RedisURL:  c.RedisURL,
		KeyPrefix: c.KeyPrefix,
		CharmHost: c.CharmHost,
		CharmDB:   c.CharmDB,
		Logger:    logger,
	}
}

// ClearConfig removes sync config file.
func ClearConfig() error {
	path := ConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}
