package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/amil/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenKVCreatesFileInWALMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "amil.db")

	kv, err := OpenKV(path)
	require.NoError(t, err)
	defer kv.Close()

	assert.FileExists(t, path)

	var mode string
	require.NoError(t, kv.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpenKVInvalidPath(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can create any path")
	}
	_, err := OpenKV("/invalid/nonexistent/path/that/cannot/be/created/amil.db")
	assert.Error(t, err)
}

func TestKVStoreRoundTrip(t *testing.T) {
	kv, err := OpenKV(filepath.Join(t.TempDir(), "crm.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, err = kv.Get([]byte(store.KeyTasks))
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.Set([]byte(store.KeyTasks), []byte(`[]`)))
	require.NoError(t, kv.Set([]byte(store.KeyTasks), []byte(`[{"id":"a"}]`)))

	got, err := kv.Get([]byte(store.KeyTasks))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got))

	at, err := kv.UpdatedAt([]byte(store.KeyTasks))
	require.NoError(t, err)
	assert.False(t, at.IsZero())

	require.NoError(t, kv.Set([]byte(store.KeySettings), []byte(`{}`)))
	keys, err := kv.Keys()
	require.NoError(t, err)
	assert.Equal(t, [][]byte{[]byte(store.KeySettings), []byte(store.KeyTasks)}, keys)

	require.NoError(t, kv.Delete([]byte(store.KeyTasks)))
	_, err = kv.Get([]byte(store.KeyTasks))
	assert.ErrorIs(t, err, store.ErrNotFound)
}
