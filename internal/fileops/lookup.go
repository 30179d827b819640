// Package fileops implements the single-file commands (print, append) and
// find-and-replace, all of which write through the atomic writer.
package fileops

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"go.uber.org/zap"

	fsherrors "github.com/FractalWanderer/FileSystemHelper/internal/errors"
	"github.com/FractalWanderer/FileSystemHelper/internal/scanner"
	"github.com/FractalWanderer/FileSystemHelper/pkg/pathutil"
)

const (
	// suggestionThreshold is the minimum Jaro-Winkler similarity for a "did you mean"
	suggestionThreshold = 0.8
	maxSuggestions      = 3
)

// Finder resolves a user-supplied file name to one path under the root
type Finder struct {
	files  *scanner.FileScanner
	logger *zap.Logger
}

func NewFinder(files *scanner.FileScanner, logger *zap.Logger) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{files: files, logger: logger.Named("lookup")}
}

// Resolve returns the absolute path for name. An existing path (absolute or
// relative to the root) is used as is, provided it lies under the root. Otherwise the tree is searched for
// files whose base name equals name: one hit is returned, none yields a
// NotFoundError with suggestions, several an AmbiguousError.
func (f *Finder) Resolve(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fsherrors.NewUsageError("file name must not be empty")
	}

	root := f.files.Root()
	direct := name
	if !filepath.IsAbs(direct) {
		direct = filepath.Join(root, name)
	}
	if info, err := os.Stat(direct); err == nil {
		if !pathutil.IsWithin(direct, root) {
			return "", fsherrors.NewUsageError("%s is outside the root %s", name, root)
		}
		if info.IsDir() {
			return "", fsherrors.NewUsageError("%s is a directory", name)
		}
		return filepath.Clean(direct), nil
	}

	// A name with a separator is a path, and that path does not exist
	byBaseName := !strings.ContainsRune(filepath.ToSlash(name), '/')

	var matches []string
	baseNames := make(map[string]bool)
	err := f.files.ScanDirectory(ctx, func(path string) error {
		base := filepath.Base(path)
		if byBaseName && base == name {
			matches = append(matches, path)
		}
		baseNames[base] = true
		return nil
	})
	if err != nil {
		return "", err
	}

	sort.Strings(matches)
	f.logger.Debug("name lookup", zap.String("name", name), zap.Int("matches", len(matches)))

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fsherrors.NewNotFoundError(name, root, suggest(filepath.Base(name), baseNames))
	default:
		labels := make([]string, len(matches))
		for i, m := range matches {
			labels[i] = pathutil.DisplayLabel(m, root)
		}
		return "", fsherrors.NewAmbiguousError(name, labels)
	}
}

// suggest returns up to maxSuggestions base names similar to name, best first
func suggest(name string, candidates map[string]bool) []string {
	type scored struct {
		name  string
		score float32
	}

	var hits []scored
	for candidate := range candidates {
		if candidate == name {
			continue
		}
		score, err := edlib.StringsSimilarity(name, candidate, edlib.JaroWinkler)
		if err != nil || score < suggestionThreshold {
			continue
		}
		hits = append(hits, scored{name: candidate, score: score})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].name < hits[j].name
	})

	var out []string
	for i := 0; i < len(hits) && i < maxSuggestions; i++ {
		out = append(out, hits[i].name)
	}
	return out
}
