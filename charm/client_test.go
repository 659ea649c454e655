// ABOUTME: Tests for the charm client wrapper over a local badger backend
// ABOUTME: Verifies not-found mapping, auto-sync on writes and config persistence
package charm

import (
	"path/filepath"
	"testing"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/amil/store"
)

// countingBackend is an in-memory backend that counts syncs.
type countingBackend struct {
	data  map[string][]byte
	syncs int
}

func newCountingBackend() *countingBackend {
	return &countingBackend{data: map[string][]byte{}}
}

func (b *countingBackend) Get(key []byte) ([]byte, error) {
	v, ok := b.data[string(key)]
	if !ok {
		return nil, badger.ErrKeyNotFound
	}
	return v, nil
}

func (b *countingBackend) Set(key, value []byte) error {
	b.data[string(key)] = value
	return nil
}

func (b *countingBackend) Delete(key []byte) error {
	delete(b.data, string(key))
	return nil
}

func (b *countingBackend) Keys() ([][]byte, error) {
	var keys [][]byte
	for k := range b.data {
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

func (b *countingBackend) Sync() error {
	b.syncs++
	return nil
}

func (b *countingBackend) Reset() error {
	b.data = map[string][]byte{}
	return nil
}

func TestClientMapsNotFound(t *testing.T) {
	c := NewWithBackend(newCountingBackend(), &Config{AutoSync: false})

	_, err := c.Get([]byte(store.KeyDeals))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestClientAutoSync(t *testing.T) {
	b := newCountingBackend()
	c := NewWithBackend(b, &Config{AutoSync: true})

	require.NoError(t, c.Set([]byte(store.KeyTasks), []byte(`[]`)))
	require.NoError(t, c.Delete([]byte(store.KeyTasks)))
	assert.Equal(t, 2, b.syncs)

	c.Config().AutoSync = false
	require.NoError(t, c.Set([]byte(store.KeyTasks), []byte(`[]`)))
	assert.Equal(t, 2, b.syncs)

	require.NoError(t, c.Sync())
	assert.Equal(t, 3, b.syncs)
}

func TestClientResetAndStatus(t *testing.T) {
	c := NewWithBackend(newCountingBackend(), &Config{Host: "localhost"})
	require.NoError(t, c.Set([]byte(store.KeyCustomers), []byte(`[]`)))

	st := c.Status()
	assert.Equal(t, "localhost", st.Host)
	assert.False(t, st.Connected)
	assert.Equal(t, 1, st.Keys)

	require.NoError(t, c.Reset())
	keys, err := c.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestClientSatisfiesKV(t *testing.T) {
	var _ store.KV = NewWithBackend(newCountingBackend(), nil)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amil", ConfigFileName)

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCharmHost, cfg.Host)
	assert.True(t, cfg.AutoSync)

	require.NoError(t, cfg.SetAutoSync(false))
	require.NoError(t, cfg.SetHost("charm.example.com"))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.False(t, loaded.AutoSync)
	assert.Equal(t, "charm.example.com", loaded.Host)
}
