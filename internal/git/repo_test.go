package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRepo(t *testing.T) {
	d := NewDetector()

	t.Run("directory with .git", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
		assert.True(t, d.IsRepo(dir))
	})

	t.Run("gitfile counts too", func(t *testing.T) {
		// Worktrees and submodules keep a .git file, not a directory.
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: ../x\n"), 0o644))
		assert.True(t, d.IsRepo(dir))
	})

	t.Run("plain directory", func(t *testing.T) {
		assert.False(t, d.IsRepo(t.TempDir()))
	})

	t.Run("missing path", func(t *testing.T) {
		assert.False(t, d.IsRepo("/no/such/path"))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.False(t, d.IsRepo(""))
	})
}

func TestIsRepoCachesAndInvalidates(t *testing.T) {
	d := NewDetector()
	dir := t.TempDir()

	assert.False(t, d.IsRepo(dir))

	// The stale cached answer survives until invalidated.
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	assert.False(t, d.IsRepo(dir))

	d.Invalidate(dir)
	assert.True(t, d.IsRepo(dir))
}
