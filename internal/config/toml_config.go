package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// tomlConfig mirrors Config with optional fields so that only keys present
// in the file override the defaults.
type tomlConfig struct {
	Project struct {
		Root *string `toml:"root"`
	} `toml:"project"`
	Scan struct {
		MaxFileSize      *string `toml:"max_file_size"`
		FollowSymlinks   *bool   `toml:"follow_symlinks"`
		RespectGitignore *bool   `toml:"respect_gitignore"`
	} `toml:"scan"`
	Search struct {
		ContextLines *int    `toml:"context_lines"`
		Highlight    *bool   `toml:"highlight"`
		MergeWindows *bool   `toml:"merge_windows"`
		Progress     *string `toml:"progress"`
		JSON         *bool   `toml:"json"`
	} `toml:"search"`
	Replace struct {
		Workers *int `toml:"workers"`
	} `toml:"replace"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// LoadTOML applies a TOML config file on top of cfg.
//
//	exclude = ["**/node_modules"]
//
//	[search]
//	context_lines = 5
//	progress = "never"
func LoadTOML(path string, cfg *Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fsherrors.NewConfigError("config", path, err)
	}
	return applyTOML(content, path, cfg)
}

func applyTOML(content []byte, path string, cfg *Config) error {
	var tc tomlConfig
	if err := toml.Unmarshal(content, &tc); err != nil {
		return fsherrors.NewConfigError("config", path, fmt.Errorf("failed to parse TOML config: %w", err))
	}

	if tc.Project.Root != nil {
		cfg.Project.Root = resolveRoot(path, *tc.Project.Root)
	}

	if tc.Scan.MaxFileSize != nil {
		size, err := parseSize(*tc.Scan.MaxFileSize)
		if err != nil {
			return fsherrors.NewConfigError("scan.max_file_size", *tc.Scan.MaxFileSize, err)
		}
		cfg.Scan.MaxFileSize = size
	}
	setBool(&cfg.Scan.FollowSymlinks, tc.Scan.FollowSymlinks)
	setBool(&cfg.Scan.RespectGitignore, tc.Scan.RespectGitignore)

	if tc.Search.ContextLines != nil {
		cfg.Search.ContextLines = *tc.Search.ContextLines
	}
	setBool(&cfg.Search.Highlight, tc.Search.Highlight)
	setBool(&cfg.Search.MergeWindows, tc.Search.MergeWindows)
	setBool(&cfg.Search.JSON, tc.Search.JSON)
	if tc.Search.Progress != nil {
		cfg.Search.Progress = *tc.Search.Progress
	}

	if tc.Replace.Workers != nil {
		cfg.Replace.Workers = *tc.Replace.Workers
	}

	if len(tc.Include) > 0 {
		cfg.Include = DeduplicatePatterns(append(cfg.Include, tc.Include...))
	}
	if len(tc.Exclude) > 0 {
		cfg.Exclude = mergeExcludes(cfg.Exclude, tc.Exclude)
	}

	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
