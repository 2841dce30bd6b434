package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), "abc-cat.png", strings.NewReader("pngdata"))
	require.NoError(t, err)
	require.Equal(t, "/uploads/abc-cat.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "abc-cat.png"))
	require.NoError(t, err)
	require.Equal(t, "pngdata", string(data))
}

func TestLocalStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestLocalStoreIgnoresPathInName(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	// Save takes only the base name even if a path sneaks through.
	_, err = store.Save(context.Background(), "../escape.png", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	require.NoError(t, err)
}
