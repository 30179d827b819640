package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedTestEnv(t *testing.T) {
	env := NewIsolatedTestEnv(t)
	assert.False(t, env.Config().Scan.RespectGitignore)
	assert.Equal(t, env.TempDir(), env.Config().Project.Root)

	env.WriteFiles(map[string]string{
		"b.txt":   "b",
		"a/c.txt": "c",
	})
	env.MkdirAll("empty/dir")

	assert.Equal(t, []string{"a/c.txt", "b.txt"}, env.ListFiles())
	assert.Equal(t, "c", env.ReadFile("a/c.txt"))
	assert.True(t, env.Exists("empty/dir"))
	assert.False(t, env.Exists("missing"))
	assert.Equal(t, filepath.Join(env.TempDir(), "a", "c.txt"), env.Path("a/c.txt"))
}

func TestIsolatedTestEnv_Gitignore(t *testing.T) {
	env := NewIsolatedTestEnv(t, "*.log", "dist/")

	assert.True(t, env.Config().Scan.RespectGitignore)
	assert.Equal(t, "*.log\ndist/\n", env.ReadFile(".gitignore"))
}

func TestIsolatedTestEnv_Symlink(t *testing.T) {
	env := NewIsolatedTestEnv(t)
	env.WriteFile("real.txt", "data")

	if err := env.Symlink(env.Path("real.txt"), "links/link.txt"); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	info, err := os.Lstat(env.Path("links/link.txt"))
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	// ListFiles reports regular files only
	assert.Equal(t, []string{"real.txt"}, env.ListFiles())
}

func TestCreateSampleProject(t *testing.T) {
	env := NewIsolatedTestEnv(t)
	env.CreateSampleProject()

	files := env.ListFiles()
	assert.Contains(t, files, "src/main.go")
	assert.Contains(t, files, "assets/logo.png")
	assert.Contains(t, files, ".git/HEAD")
}
