package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

const (
	// DefaultMaxFileSize caps how much of a single file the reader loads (10MB)
	DefaultMaxFileSize int64 = 10 * 1024 * 1024

	// DefaultContextLines is the context_size used by find when none is given
	DefaultContextLines = 3
)

// Progress modes for the find command
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

type Config struct {
	Version int
	Project Project
	Scan    Scan
	Search  Search
	Replace Replace
	Include []string
	Exclude []string
}

type Project struct {
	Root string
}

type Scan struct {
	MaxFileSize      int64 // 0 = unlimited
	FollowSymlinks   bool
	RespectGitignore bool // Apply the root .gitignore on top of Exclude
}

type Search struct {
	ContextLines int
	Highlight    bool
	MergeWindows bool   // Coalesce overlapping context windows within a file
	Progress     string // auto, always, never
	JSON         bool
}

type Replace struct {
	Workers int // 0 = NumCPU
	DryRun  bool
}

// Default returns the configuration used when no config file is given.
// Root is made absolute so enumerated paths are absolute too.
func Default(root string) (*Config, error) {
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	return &Config{
		Version: 1,
		Project: Project{Root: absRoot},
		Scan: Scan{
			MaxFileSize:      DefaultMaxFileSize,
			FollowSymlinks:   false,
			RespectGitignore: false,
		},
		Search: Search{
			ContextLines: DefaultContextLines,
			Highlight:    true,
			Progress:     ProgressAuto,
		},
		Replace: Replace{
			Workers: runtime.NumCPU(),
		},
		Include: []string{},
		Exclude: []string{
			// Git metadata
			"**/.git",
		},
	}, nil
}

// LoadFile applies a config file on top of cfg. The format is chosen by
// extension: .kdl or .toml.
func LoadFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kdl":
		return LoadKDL(path, cfg)
	case ".toml":
		return LoadTOML(path, cfg)
	default:
		return fsherrors.NewConfigError("config", path,
			fmt.Errorf("unsupported config format %q (want .kdl or .toml)", filepath.Ext(path)))
	}
}

// mergeExcludes appends file exclusions to the defaults; defaults are never dropped
func mergeExcludes(base, extra []string) []string {
	return DeduplicatePatterns(append(append([]string{}, base...), extra...))
}

// DeduplicatePatterns removes duplicate patterns, keeping first occurrence order
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !seen[pattern] {
			seen[pattern] = true
			result = append(result, pattern)
		}
	}

	return result
}

// resolveRoot resolves a root from a config file relative to the file's directory
func resolveRoot(configPath, root string) string {
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	dir := filepath.Dir(configPath)
	if absDir, err := filepath.Abs(dir); err == nil {
		dir = absDir
	}
	return filepath.Clean(filepath.Join(dir, root))
}
