package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSetGet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	saved := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Set(KeyLastFile, Record{File: "/docs/readme.md", SavedAt: saved}))

	// A fresh store over the same directory sees the record.
	store2, err := NewFileStore(dir)
	require.NoError(t, err)

	got, err := store2.Get(KeyLastFile)
	require.NoError(t, err)
	assert.Equal(t, "/docs/readme.md", got.File)
	assert.True(t, saved.Equal(got.SavedAt))

	data, err := os.ReadFile(filepath.Join(dir, KeyLastFile+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file":"/docs/readme.md"`)
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(KeyLastPath)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreRemove(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set(KeyLastPath, Record{File: "/project"}))
	require.NoError(t, store.Remove(KeyLastPath))

	_, err = store.Get(KeyLastPath)
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing again is a no-op
	assert.NoError(t, store.Remove(KeyLastPath))
}

func TestFileStoreRejectsBadKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "..", "a/b", `a\b`} {
		_, err := store.Get(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
		assert.ErrorIs(t, store.Set(key, Record{}), ErrInvalidKey, "key %q", key)
	}
}

func TestFileStoreCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, KeyLastFile+".json"), []byte("{not json"), 0644))

	_, err = store.Get(KeyLastFile)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
