package searchtypes

// ContextWindow is a contiguous run of lines around one or more matches
type ContextWindow struct {
	StartLine  int      `json:"start_line"`  // Zero-based index of Lines[0] in the file
	Lines      []string `json:"lines"`       // Clipped at file boundaries, never padded
	MatchLines []int    `json:"match_lines"` // Zero-based indexes of matching lines inside the window
}

// EndLine returns the zero-based index one past the last line of the window
func (w ContextWindow) EndLine() int {
	return w.StartLine + len(w.Lines)
}

// IsMatch reports whether the zero-based file line index is a match line of this window
func (w ContextWindow) IsMatch(line int) bool {
	for _, m := range w.MatchLines {
		if m == line {
			return true
		}
	}
	return false
}

// SearchResult is the per-file outcome of a search. It only exists for files
// with at least one occurrence.
type SearchResult struct {
	FileName    string          `json:"file"` // Display label, relative to the search root
	Path        string          `json:"path"`
	Occurrences int             `json:"occurrences"`
	Windows     []ContextWindow `json:"windows"`
}

// ScanProgress is the number of files examined so far against the expected total
type ScanProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// Fraction returns progress in [0,1]; zero when the total is unknown
func (p ScanProgress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Current) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// ScanStats summarizes a completed scan
type ScanStats struct {
	FilesExamined int `json:"files_examined"`
	FilesSkipped  int `json:"files_skipped"`
	FilesMatched  int `json:"files_matched"`
	Occurrences   int `json:"occurrences"`
}

// Query configures a literal, case-sensitive search
type Query struct {
	Text         string
	ContextLines int
	MergeWindows bool
}
