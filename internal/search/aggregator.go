package search

import (
	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

// Aggregate scans one file's text and builds its SearchResult. It returns
// false when the file has no occurrences; nothing is kept for such files.
func Aggregate(path, label, text string, q searchtypes.Query) (searchtypes.SearchResult, bool) {
	lines := SplitLines(text)
	matches := FindMatches(lines, q.Text)
	if len(matches) == 0 {
		return searchtypes.SearchResult{}, false
	}

	windows := make([]searchtypes.ContextWindow, 0, len(matches))
	for _, index := range matches {
		windows = append(windows, WindowAt(lines, index, q.ContextLines))
	}
	if q.MergeWindows {
		windows = MergeWindows(lines, windows)
	}

	return searchtypes.SearchResult{
		FileName:    label,
		Path:        path,
		Occurrences: len(matches),
		Windows:     windows,
	}, true
}
