// Package scanner enumerates candidate files under a root and reads them as text.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/FractalWanderer/FileSystemHelper/internal/config"
	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
)

// FileScanner walks the configured root and yields regular files in
// lexical order, one at a time.
type FileScanner struct {
	config          *config.Config
	logger          *zap.Logger
	gitignoreParser *config.GitignoreParser

	compiledExclusions []string // Pattern strings (doublestar compiles internally)
	compiledInclusions []string
}

// NewFileScanner creates a scanner for cfg.Project.Root
func NewFileScanner(cfg *config.Config, logger *zap.Logger) *FileScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := &FileScanner{
		config: cfg,
		logger: logger.Named("scanner"),
	}

	scanner.compilePatterns()

	if cfg.Scan.RespectGitignore {
		scanner.gitignoreParser = config.NewGitignoreParser()
		if err := scanner.gitignoreParser.LoadGitignore(cfg.Project.Root); err != nil {
			scanner.logger.Warn("failed to load .gitignore", zap.Error(err))
		}
	}

	return scanner
}

// Root returns the directory being scanned
func (fs *FileScanner) Root() string {
	return fs.config.Project.Root
}

// ScanDirectory calls fn for every regular file under the root that passes
// the filters. Per-entry errors are logged and skipped. A non-nil error from
// fn or a cancelled context stops the walk and is returned.
func (fs *FileScanner) ScanDirectory(ctx context.Context, fn func(path string) error) error {
	root := fs.config.Project.Root
	if err := checkRoot(root); err != nil {
		return err
	}

	// A root given as a symlink is always resolved; WalkDir would not descend it
	walkRoot := root
	if info, err := os.Lstat(root); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(root); err == nil {
			walkRoot = resolved
		}
	}

	fs.logger.Debug("starting directory scan", zap.String("root", root))
	visitedDirs := make(map[string]bool)
	return fs.walk(ctx, walkRoot, root, visitedDirs, fn)
}

// CountFiles counts the files ScanDirectory would yield, using the same
// exclusion and inclusion logic.
func (fs *FileScanner) CountFiles(ctx context.Context) (int, error) {
	count := 0
	err := fs.ScanDirectory(ctx, func(string) error {
		count++
		return nil
	})
	return count, err
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fsherrors.NewFileError("scan", root, err)
	}
	if !info.IsDir() {
		return fsherrors.NewFileError("scan", root, fmt.Errorf("%s is not a directory", root))
	}
	return nil
}

// walk descends walkRoot and reports paths as if they lived under
// displayRoot. The two differ only when descending a followed symlink.
func (fs *FileScanner) walk(ctx context.Context, walkRoot, displayRoot string, visitedDirs map[string]bool, fn func(string) error) error {
	return filepath.WalkDir(walkRoot, func(walkPath string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		path := walkPath
		if walkRoot != displayRoot {
			if rel, relErr := filepath.Rel(walkRoot, walkPath); relErr == nil {
				path = filepath.Join(displayRoot, rel)
			}
		}

		if err != nil {
			// Continue scanning despite errors
			fs.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() && walkPath != walkRoot {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return fs.enterDir(walkPath, path, visitedDirs)
		}

		switch {
		case d.Type().IsRegular():
			if !fs.shouldProcessFile(path) {
				return nil
			}
			return fn(path)
		case d.Type()&os.ModeSymlink != 0:
			return fs.followSymlink(ctx, path, visitedDirs, fn)
		default:
			fs.logger.Debug("skipping non-regular file", zap.String("path", path))
			return nil
		}
	})
}

// enterDir decides whether to descend into a directory
func (fs *FileScanner) enterDir(walkPath, path string, visitedDirs map[string]bool) error {
	if path != fs.config.Project.Root {
		rel := fs.relPath(path)
		// Check with trailing slash for directory patterns
		if fs.shouldExcludeFast(rel) || fs.shouldExcludeFast(rel+"/") {
			fs.logger.Debug("excluded directory", zap.String("path", rel))
			return filepath.SkipDir
		}
		if fs.gitignoreParser != nil && fs.gitignoreParser.ShouldIgnore(rel, true) {
			return filepath.SkipDir
		}
	}

	// Cycle detection only matters when symlinks can lead back into the tree
	if fs.config.Scan.FollowSymlinks {
		realPath, err := filepath.EvalSymlinks(walkPath)
		if err != nil {
			fs.logger.Warn("skipping unresolvable directory", zap.String("path", path), zap.Error(err))
			return filepath.SkipDir
		}
		if visitedDirs[realPath] {
			return filepath.SkipDir
		}
		visitedDirs[realPath] = true
	}
	return nil
}

func (fs *FileScanner) followSymlink(ctx context.Context, path string, visitedDirs map[string]bool, fn func(string) error) error {
	if !fs.config.Scan.FollowSymlinks {
		fs.logger.Debug("skipping symlink", zap.String("path", path))
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		fs.logger.Warn("skipping broken symlink", zap.String("path", path), zap.Error(err))
		return nil
	}

	switch {
	case info.Mode().IsRegular():
		if !fs.shouldProcessFile(path) {
			return nil
		}
		return fn(path)
	case info.IsDir():
		rel := fs.relPath(path)
		if fs.shouldExcludeFast(rel) || fs.shouldExcludeFast(rel+"/") {
			return nil
		}
		if fs.gitignoreParser != nil && fs.gitignoreParser.ShouldIgnore(rel, true) {
			return nil
		}
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			fs.logger.Warn("skipping unresolvable symlink", zap.String("path", path), zap.Error(err))
			return nil
		}
		if visitedDirs[realPath] {
			fs.logger.Debug("symlink cycle detected", zap.String("path", path), zap.String("target", realPath))
			return nil
		}
		return fs.walk(ctx, realPath, path, visitedDirs, fn)
	default:
		return nil
	}
}

// shouldProcessFile applies exclusion, gitignore and inclusion filters to a file path
func (fs *FileScanner) shouldProcessFile(path string) bool {
	rel := fs.relPath(path)

	if fs.shouldExcludeFast(rel) {
		return false
	}

	if fs.gitignoreParser != nil && fs.gitignoreParser.ShouldIgnore(rel, false) {
		return false
	}

	return fs.shouldIncludeFast(rel)
}
