package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageFetch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kuhp_old.txt"), []byte("Pasal 362"), 0o644))

	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	rc, err := store.Fetch(context.Background(), "kuhp_old.txt")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Pasal 362", string(data))
}

func TestLocalStorageFetchMissingKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Fetch(context.Background(), "missing.pdf")
	assert.ErrorContains(t, err, "document not found")
}

func TestNewLocalStorageRejectsBadPath(t *testing.T) {
	_, err := NewLocalStorage("/nonexistent/documents")
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "a-file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewLocalStorage(file)
	assert.ErrorContains(t, err, "not a directory")
}

func TestMaterialize(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "kuhp_new.txt"), []byte("Pasal 476"), 0o644))
	store, err := NewLocalStorage(src)
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "staged", "kuhp_new.txt")
	require.NoError(t, Materialize(context.Background(), store, "kuhp_new.txt", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Pasal 476", string(data))
}
