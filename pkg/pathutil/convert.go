// Package pathutil converts between absolute and root-relative paths.
//
// fsh uses absolute paths internally so a file has one identity for the
// whole run. User-facing output uses paths relative to the search root.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Different volumes on Windows
		return absPath
	}

	// Outside the root the absolute path is clearer
	if relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return absPath
	}

	return relPath
}

// DisplayLabel is ToRelative with forward slashes, the form used in output
func DisplayLabel(absPath, rootDir string) string {
	return filepath.ToSlash(ToRelative(absPath, rootDir))
}

// IsWithin reports whether path is rootDir or lies below it
func IsWithin(path, rootDir string) bool {
	relPath, err := filepath.Rel(filepath.Clean(rootDir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return relPath != ".." && !strings.HasPrefix(relPath, ".."+string(filepath.Separator))
}
