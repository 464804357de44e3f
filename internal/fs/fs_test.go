package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, EnsureDirectoryExists(dir))
	require.NoError(t, EnsureDirectoryExists(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())

	file := filepath.Join(dir, "file")
	require.NoError(t, SaveFile(file, []byte("x")))
	require.Error(t, EnsureDirectoryExists(file))
}

func TestSaveFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "view.json")
	require.NoError(t, SaveFile(path, []byte("first")))
	require.NoError(t, SaveFile(path, []byte("second")))

	bts, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(bts))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
