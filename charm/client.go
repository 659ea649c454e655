// ABOUTME: Charm KV client wrapper implementing the CRM key-value store
// ABOUTME: Serialises access with a mutex and syncs after writes when enabled
package charm

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/amil/store"
)

// backend is the subset of *kv.KV the client needs.
type backend interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	Reset() error
}

// Client wraps charm KV with config and sync helpers.
type Client struct {
	kv     backend
	config *Config
	mu     sync.RWMutex
	// remote is false for clients built over a local backend
	remote bool
}

// Open sets CHARM_HOST from cfg and opens the charm KV database.
func Open(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	_ = os.Setenv("CHARM_HOST", cfg.Host)

	db, err := kv.OpenWithDefaults(AppName)
	if err != nil {
		return nil, fmt.Errorf("failed to open charm kv: %w", err)
	}

	c := &Client{kv: db, config: cfg, remote: true}

	// Pull remote changes before the first read
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return c, nil
}

// NewWithBackend builds a client over any backend; Sync becomes whatever the
// backend does.
func NewWithBackend(b backend, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{kv: b, config: cfg}
}

// Close is a no-op: charm/kv does not expose Close and badger is released on exit.
func (c *Client) Close() error {
	return nil
}

func (c *Client) Config() *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

// ID returns the charm user ID for this device.
func (c *Client) ID() (string, error) {
	if !c.remote {
		return "", errors.New("charm: local backend has no account")
	}
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("failed to create charm client: %w", err)
	}
	return cc.ID()
}

func (c *Client) IsConnected() bool {
	_, err := c.ID()
	return err == nil
}

// Sync performs a manual sync with the charm server.
func (c *Client) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Sync()
}

func (c *Client) Get(key []byte) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, err := c.kv.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) || errors.Is(err, store.ErrNotFound) {
		return nil, store.ErrNotFound
	}
	return val, err
}

// Set stores a value and syncs if enabled.
func (c *Client) Set(key, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Set(key, value); err != nil {
		return err
	}

	// Sync while still holding lock to avoid race condition
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

// Delete removes a key and syncs if enabled.
func (c *Client) Delete(key []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.kv.Delete(key); err != nil {
		return err
	}
	if c.config.AutoSync {
		_ = c.kv.Sync()
	}
	return nil
}

func (c *Client) Keys() ([][]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.Keys()
}

// Reset wipes all data from the KV store.
func (c *Client) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kv.Reset()
}

// Status summarises the sync state for display.
type Status struct {
	Host      string
	AutoSync  bool
	Connected bool
	UserID    string
	Keys      int
}

func (c *Client) Status() Status {
	cfg := c.Config()
	st := Status{Host: cfg.Host, AutoSync: cfg.AutoSync}
	if id, err := c.ID(); err == nil {
		st.Connected = true
		st.UserID = id
	}
	if keys, err := c.Keys(); err == nil {
		st.Keys = len(keys)
	}
	return st
}
