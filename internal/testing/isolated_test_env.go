// Package testing provides real-filesystem fixtures for fsh tests.
package testing

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FractalWanderer/FileSystemHelper/internal/config"
)

// IsolatedTestEnv provides a real temporary directory tree with its own
// configuration for integration testing
type IsolatedTestEnv struct {
	t       testing.TB
	tempDir string
	config  *config.Config
}

// NewIsolatedTestEnv creates a temporary directory. When gitignore patterns
// are given a root .gitignore is written and the config respects it.
func NewIsolatedTestEnv(t testing.TB, gitignorePatterns ...string) *IsolatedTestEnv {
	t.Helper()
	tempDir := t.TempDir()

	// Resolve symlinked temp dirs (macOS /var -> /private/var) so paths compare equal
	if resolved, err := filepath.EvalSymlinks(tempDir); err == nil {
		tempDir = resolved
	}

	cfg, err := config.Default(tempDir)
	require.NoError(t, err)

	env := &IsolatedTestEnv{t: t, tempDir: tempDir, config: cfg}
	if len(gitignorePatterns) > 0 {
		env.SetGitignore(gitignorePatterns...)
		cfg.Scan.RespectGitignore = true
	}
	return env
}

// TempDir returns the root of the test tree
func (ite *IsolatedTestEnv) TempDir() string {
	return ite.tempDir
}

// Config returns the test configuration, rooted at TempDir
func (ite *IsolatedTestEnv) Config() *config.Config {
	return ite.config
}

// Path joins a slash-separated relative path onto the root
func (ite *IsolatedTestEnv) Path(rel string) string {
	return filepath.Join(ite.tempDir, filepath.FromSlash(rel))
}

// WriteFile creates a file in the test environment
func (ite *IsolatedTestEnv) WriteFile(path string, content string) {
	ite.WriteFileBytes(path, []byte(content))
}

// WriteFiles creates every file of a relative path -> content map
func (ite *IsolatedTestEnv) WriteFiles(files map[string]string) {
	for path, content := range files {
		ite.WriteFile(path, content)
	}
}

// WriteFileBytes creates a file with binary content
func (ite *IsolatedTestEnv) WriteFileBytes(path string, content []byte) {
	ite.t.Helper()
	fullPath := ite.Path(path)
	require.NoError(ite.t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(ite.t, os.WriteFile(fullPath, content, 0o644))
}

// MkdirAll creates a directory (and any necessary parents)
func (ite *IsolatedTestEnv) MkdirAll(path string) {
	ite.t.Helper()
	require.NoError(ite.t, os.MkdirAll(ite.Path(path), 0o755))
}

// Symlink creates link pointing at target. Tests that need symlinks should
// skip on platforms where creating them fails.
func (ite *IsolatedTestEnv) Symlink(target, link string) error {
	linkPath := ite.Path(link)
	if err := os.MkdirAll(filepath.Dir(linkPath), 0o755); err != nil {
		return err
	}
	return os.Symlink(target, linkPath)
}

// Exists checks if a file or directory exists
func (ite *IsolatedTestEnv) Exists(path string) bool {
	_, err := os.Stat(ite.Path(path))
	return err == nil
}

// ReadFile reads the content of a file
func (ite *IsolatedTestEnv) ReadFile(path string) string {
	ite.t.Helper()
	content, err := os.ReadFile(ite.Path(path))
	require.NoError(ite.t, err)
	return string(content)
}

// SetGitignore creates or replaces the root .gitignore file
func (ite *IsolatedTestEnv) SetGitignore(patterns ...string) {
	ite.WriteFile(".gitignore", strings.Join(patterns, "\n")+"\n")
}

// ListFiles returns every regular file under the root as sorted slash paths
func (ite *IsolatedTestEnv) ListFiles() []string {
	ite.t.Helper()
	var files []string

	err := filepath.WalkDir(ite.tempDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		relPath, err := filepath.Rel(ite.tempDir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(relPath))
		return nil
	})

	require.NoError(ite.t, err)
	sort.Strings(files)
	return files
}

// CreateSampleProject writes a small mixed tree: source, docs, a binary
// asset, VCS metadata and a nested directory.
func (ite *IsolatedTestEnv) CreateSampleProject() {
	ite.WriteFiles(map[string]string{
		"README.md":           "# Sample\n\nTODO: describe the project\n",
		"src/main.go":         "package main\n\n// TODO: handle errors\nfunc main() {\n}\n",
		"src/util/strings.go": "package util\n\nfunc Upper(s string) string { return s }\n",
		"docs/notes.txt":      "first note\nsecond note\n",
		".git/HEAD":           "ref: refs/heads/main\n",
	})
	ite.WriteFileBytes("assets/logo.png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0})
}
