package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Returns a ConfigError naming the failing section, except for a root that
// cannot be accessed, which is a fatal FileError.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.Project.Root == "" {
		return fsherrors.NewConfigError("project", "", errors.New("project root cannot be empty"))
	}
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return fsherrors.NewFileError("scan", cfg.Project.Root, err)
	}

	if err := v.validateScanConfig(&cfg.Scan); err != nil {
		return fsherrors.NewConfigError("scan", "", err)
	}

	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		return fsherrors.NewConfigError("search", "", err)
	}

	if cfg.Replace.Workers < 0 {
		return fsherrors.NewConfigError("replace", fmt.Sprint(cfg.Replace.Workers),
			fmt.Errorf("workers cannot be negative, got %d", cfg.Replace.Workers))
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateProjectConfig checks that the root exists and is a directory
func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}

	info, err := os.Stat(project.Root)
	if err != nil {
		return fmt.Errorf("root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", project.Root)
	}

	return nil
}

func (v *Validator) validateScanConfig(scan *Scan) error {
	if scan.MaxFileSize < 0 {
		return fmt.Errorf("MaxFileSize cannot be negative, got %d", scan.MaxFileSize)
	}
	return nil
}

func (v *Validator) validateSearchConfig(search *Search) error {
	if search.ContextLines < 0 {
		return fmt.Errorf("ContextLines cannot be negative, got %d", search.ContextLines)
	}

	switch search.Progress {
	case "", ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return fmt.Errorf("progress must be one of auto, always, never, got %q", search.Progress)
	}

	return nil
}

// setSmartDefaults fills zero values left by a partial config file
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Replace.Workers == 0 {
		cfg.Replace.Workers = max(1, runtime.NumCPU())
	}

	if cfg.Search.Progress == "" {
		cfg.Search.Progress = ProgressAuto
	}

	cfg.Include = DeduplicatePatterns(cfg.Include)
	cfg.Exclude = DeduplicatePatterns(cfg.Exclude)
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
