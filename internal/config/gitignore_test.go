package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGitignoreParser_BasicPatterns tests fundamental gitignore pattern matching
func TestGitignoreParser_BasicPatterns(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		path     string
		isDir    bool
		expected bool
	}{
		{"Simple file match", "README.md", "README.md", false, true},
		{"Simple file no match", "README.md", "main.js", false, false},
		{"Name matches in subdirectory", "README.md", "docs/README.md", false, true},
		{"Directory pattern matches directory", "node_modules/", "node_modules", true, true},
		{"Directory pattern matches files inside", "node_modules/", "node_modules/react/index.js", false, true},
		{"Directory pattern nested", "node_modules/", "web/node_modules/react/index.js", false, true},
		{"Directory pattern ignores same-named file", "build/", "build", false, false},
		{"Directory pattern no match outside", "node_modules/", "src/main.js", false, false},
		{"Absolute pattern match", "/build", "build", true, true},
		{"Absolute pattern no nested match", "/build", "src/build", true, false},
		{"Suffix wildcard", "*.log", "logs/app.log", false, true},
		{"Suffix wildcard no match", "*.log", "app.txt", false, false},
		{"Anchored path with slash", "docs/*.md", "docs/a.md", false, true},
		{"Anchored path not nested", "docs/*.md", "x/docs/a.md", false, false},
		{"Double star", "**/tmp/**", "a/b/tmp/c.txt", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewGitignoreParser()
			parser.AddPattern(tt.pattern)
			assert.Equal(t, tt.expected, parser.ShouldIgnore(tt.path, tt.isDir))
		})
	}
}

func TestGitignoreParser_NegationPriority(t *testing.T) {
	parser := NewGitignoreParser()
	parser.AddPattern("*.log")
	parser.AddPattern("!keep.log")

	assert.True(t, parser.ShouldIgnore("debug.log", false))
	assert.False(t, parser.ShouldIgnore("keep.log", false))
	assert.False(t, parser.ShouldIgnore("logs/keep.log", false))
}

func TestGitignoreParser_LoadGitignore(t *testing.T) {
	dir := t.TempDir()
	content := "# comment\n\n*.tmp\nout/\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(content), 0o644))

	parser := NewGitignoreParser()
	require.NoError(t, parser.LoadGitignore(dir))

	assert.Equal(t, 2, parser.Len())
	assert.True(t, parser.ShouldIgnore("x.tmp", false))
	assert.True(t, parser.ShouldIgnore("out/a.txt", false))
	assert.False(t, parser.ShouldIgnore("src/a.txt", false))
}

func TestGitignoreParser_MissingFile(t *testing.T) {
	parser := NewGitignoreParser()
	require.NoError(t, parser.LoadGitignore(t.TempDir()))
	assert.Equal(t, 0, parser.Len())
	assert.False(t, parser.ShouldIgnore("anything", false))
}
