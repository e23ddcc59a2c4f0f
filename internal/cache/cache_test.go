package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntry(t *testing.T) {
	entry := NewEntry("k", "scene.blend", json.RawMessage(`{"a":1}`), time.Hour)

	assert.False(t, entry.IsExpired())
	assert.LessOrEqual(t, entry.Age(), time.Second)

	entry.ExpiresAt = time.Now().Add(-time.Second)
	assert.True(t, entry.IsExpired())
}

func TestFileStore_SetGet(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "cache"), 0)
	require.NoError(t, err)

	require.NoError(t, store.Set("key-1", "/tmp/a.blend", json.RawMessage(`{"frame_start":1}`)))

	entry, err := store.Get("key-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"frame_start":1}`, string(entry.Data))
	assert.Equal(t, "/tmp/a.blend", entry.Source)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFileStore_Errors(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, err = store.Get("")
	require.ErrorIs(t, err, ErrInvalidCacheKey)
	require.ErrorIs(t, store.Set("", "", nil), ErrInvalidCacheKey)

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrCacheNotFound)

	_, err = NewFileStore("", time.Hour)
	require.Error(t, err)
}

func TestFileStore_Expired(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, time.Nanosecond)
	require.NoError(t, err)

	require.NoError(t, store.Set("old", "", json.RawMessage(`{}`)))
	time.Sleep(2 * time.Millisecond)

	_, err = store.Get("old")
	require.ErrorIs(t, err, ErrCacheExpired)

	_, statErr := os.Stat(filepath.Join(dir, "old.json"))
	assert.True(t, os.IsNotExist(statErr), "expired entry is removed")
}

func TestFileStore_DeleteAndClear(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, store.Set(k, "", json.RawMessage(`{}`)))
	}
	require.NoError(t, store.Delete("a"))
	require.NoError(t, store.Delete("a"), "delete is idempotent")

	removed, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)

	require.NoError(t, store.Set("a/b:c", "", json.RawMessage(`{}`)))
	_, statErr := os.Stat(filepath.Join(dir, "a_b_c.json"))
	require.NoError(t, statErr)
}

func TestKeyForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.blend")
	require.NoError(t, os.WriteFile(path, []byte("BLENDER-v401"), 0o600))

	k1, err := KeyForFile(path)
	require.NoError(t, err)
	k2, err := KeyForFile(path)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)

	// A different size changes the key even when the mtime does not.
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("BLENDER-v401 edited"), 0o600))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))
	k3, err := KeyForFile(path)
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	_, err = KeyForFile(filepath.Join(t.TempDir(), "missing.blend"))
	require.Error(t, err)
}
