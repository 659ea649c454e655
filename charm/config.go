// ABOUTME: Configuration for Charm KV backend connection
// ABOUTME: Stores server host and auto-sync preference under the XDG data dir
package charm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/charm/kv"
)

const (
	// DefaultCharmHost is the self-hosted 2389 research server.
	DefaultCharmHost = "charm.2389.dev"

	// AppName names the charm KV database and the local data directory.
	AppName = "amil"

	ConfigFileName = "charm-config.json"
)

type Config struct {
	Host string `json:"host,omitempty"`

	// AutoSync pushes after every write and pulls on open
	AutoSync bool `json:"auto_sync"`

	StaleThreshold time.Duration `json:"stale_threshold,omitempty"`

	path string
}

func DefaultConfig() *Config {
	return &Config{
		Host:           DefaultCharmHost,
		AutoSync:       true,
		StaleThreshold: kv.DefaultStaleThreshold,
	}
}

// DefaultConfigPath is $XDG_DATA_HOME/amil/charm-config.json.
func DefaultConfigPath() string {
	return filepath.Join(xdg.DataHome, AppName, ConfigFileName)
}

// LoadConfig reads the default config file.
func LoadConfig() (*Config, error) {
	return LoadConfigFile(DefaultConfigPath())
}

// LoadConfigFile returns defaults when the file is missing or unparseable.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.path = path
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		cfg = *DefaultConfig()
	}
	if cfg.Host == "" {
		cfg.Host = DefaultCharmHost
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = kv.DefaultStaleThreshold
	}
	cfg.path = path
	return &cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetHost(host string) error {
	c.Host = host
	return c.Save()
}

func (c *Config) SetAutoSync(enabled bool) error {
	c.AutoSync = enabled
	return c.Save()
}
