package search

import (
	"strings"

	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

// Pure functions for match scanning. They depend only on their inputs.

// SplitLines splits text on "\n" and drops one trailing "\r" per line, so
// CRLF and LF files produce the same lines. A final "\n" terminates the last
// line rather than starting an empty one; empty text has no lines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// FindMatches returns the zero-based indexes of lines containing target
// as a literal, case-sensitive substring.
func FindMatches(lines []string, target string) []int {
	if target == "" {
		return nil
	}
	var matches []int
	for i, line := range lines {
		if strings.Contains(line, target) {
			matches = append(matches, i)
		}
	}
	return matches
}

// WindowAt returns lines [max(0,index-context), min(len,index+context+1))
func WindowAt(lines []string, index, context int) searchtypes.ContextWindow {
	if context < 0 {
		context = 0
	}
	start := max(0, index-context)
	end := min(len(lines), index+context+1)

	return searchtypes.ContextWindow{
		StartLine:  start,
		Lines:      lines[start:end:end],
		MatchLines: []int{index},
	}
}

// MergeWindows coalesces windows that overlap or touch. Input must be in
// ascending StartLine order, as produced for one file. lines is the file the
// windows were cut from.
func MergeWindows(lines []string, windows []searchtypes.ContextWindow) []searchtypes.ContextWindow {
	if len(windows) < 2 {
		return windows
	}

	merged := make([]searchtypes.ContextWindow, 0, len(windows))
	current := windows[0]
	current.MatchLines = append([]int(nil), current.MatchLines...)

	for _, next := range windows[1:] {
		if next.StartLine <= current.EndLine() {
			end := max(current.EndLine(), next.EndLine())
			current.Lines = lines[current.StartLine:end:end]
			current.MatchLines = append(current.MatchLines, next.MatchLines...)
			continue
		}
		merged = append(merged, current)
		current = next
		current.MatchLines = append([]int(nil), current.MatchLines...)
	}

	return append(merged, current)
}
