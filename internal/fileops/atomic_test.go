package fileops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o640))

	err := WriteAtomic(context.Background(), path, []byte("after"), ContentHash([]byte("before")))
	require.NoError(t, err)

	assert.Equal(t, "after", readFile(t, path))
	assert.Empty(t, tempLeftovers(t, dir))

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	}
}

func TestWriteAtomic_ConcurrentModification(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))
	expected := ContentHash([]byte("original"))

	// Someone else writes between our read and our rename
	require.NoError(t, os.WriteFile(path, []byte("theirs"), 0o644))

	err := WriteAtomic(context.Background(), path, []byte("ours"), expected)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModifiedConcurrently))

	assert.Equal(t, "theirs", readFile(t, path))
	assert.Empty(t, tempLeftovers(t, dir))
}

func TestWriteAtomic_CancelledLeavesOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("original"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WriteAtomic(ctx, path, []byte("new"), ContentHash([]byte("original")))
	require.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, "original", readFile(t, path))
	assert.Empty(t, tempLeftovers(t, dir))
}

func TestWriteAtomic_MissingFile(t *testing.T) {
	dir := t.TempDir()
	err := WriteAtomic(context.Background(), filepath.Join(dir, "gone.txt"), []byte("x"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, tempLeftovers(t, dir))
}
