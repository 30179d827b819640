package scanner

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// compilePatterns copies exclusion and inclusion patterns out of the config
func (fs *FileScanner) compilePatterns() {
	fs.compiledExclusions = make([]string, 0, len(fs.config.Exclude))
	for _, pattern := range fs.config.Exclude {
		fs.compiledExclusions = append(fs.compiledExclusions, filepath.ToSlash(pattern))
	}

	fs.compiledInclusions = make([]string, 0, len(fs.config.Include))
	for _, pattern := range fs.config.Include {
		fs.compiledInclusions = append(fs.compiledInclusions, filepath.ToSlash(pattern))
	}
}

// relPath returns the root-relative slash path used for pattern matching
func (fs *FileScanner) relPath(path string) string {
	relPath, err := filepath.Rel(fs.config.Project.Root, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

// shouldExcludeFast checks if a path matches any exclusion pattern
func (fs *FileScanner) shouldExcludeFast(path string) bool {
	for _, pattern := range fs.compiledExclusions {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			// Bad pattern shouldn't break scanning
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// shouldIncludeFast checks if a path matches any inclusion pattern.
// With no inclusion patterns everything is included.
func (fs *FileScanner) shouldIncludeFast(path string) bool {
	if len(fs.compiledInclusions) == 0 {
		return true
	}

	for _, pattern := range fs.compiledInclusions {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
