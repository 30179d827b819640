package config

import (
	"bufio"
	"io"
	"os"
	pathpkg "path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser handles parsing and matching .gitignore files
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool

	glob string // doublestar form of Pattern, relative to the root
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{
		patterns: make([]GitignorePattern, 0),
	}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	return gp.scanAndParsePatterns(file)
}

func (gp *GitignoreParser) scanAndParsePatterns(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single gitignore line
func (gp *GitignoreParser) AddPattern(line string) {
	gp.patterns = append(gp.patterns, parsePattern(line))
}

// Len returns the number of loaded patterns
func (gp *GitignoreParser) Len() int {
	return len(gp.patterns)
}

func parsePattern(line string) GitignorePattern {
	pattern := GitignorePattern{}

	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	}
	pattern.Pattern = line

	// A slash anywhere but the end anchors the pattern to the root
	if pattern.Absolute || strings.Contains(line, "/") {
		pattern.glob = line
	} else {
		pattern.glob = "**/" + line
	}

	return pattern
}

// ShouldIgnore reports whether a root-relative path is ignored. Later
// patterns override earlier ones, so a negation can re-include a path.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)

	ignored := false
	for _, pattern := range gp.patterns {
		if pattern.matches(path, isDir) {
			ignored = !pattern.Negate
		}
	}
	return ignored
}

func (p GitignorePattern) matches(path string, isDir bool) bool {
	// Anything below a matched directory is ignored too
	for dir := pathpkg.Dir(path); dir != "." && dir != "/"; dir = pathpkg.Dir(dir) {
		if ok, _ := doublestar.Match(p.glob, dir); ok {
			return true
		}
	}
	if p.Directory && !isDir {
		return false
	}
	ok, _ := doublestar.Match(p.glob, path)
	return ok
}
