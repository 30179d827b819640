package display

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"

	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

// ResultFormatter writes search results in production order, then a summary
type ResultFormatter interface {
	WriteResult(result searchtypes.SearchResult) error
	WriteSummary(stats searchtypes.ScanStats, elapsed time.Duration) error
}

// TextFormatter writes the human-readable grep-style layout:
//
//	src/main.go: 2 occurrence(s) of "needle"
//	       3 | before
//	  >    4 | the needle
//	       5 | after
//	--
//	  >   10 | needle again
type TextFormatter struct {
	out         io.Writer
	text        string
	highlighter Highlighter
}

// NewTextFormatter creates a formatter for results of a search for text
func NewTextFormatter(out io.Writer, text string, highlighter Highlighter) *TextFormatter {
	if highlighter == nil {
		highlighter = PlainHighlighter{}
	}
	return &TextFormatter{out: out, text: text, highlighter: highlighter}
}

func (f *TextFormatter) WriteResult(result searchtypes.SearchResult) error {
	w := &errWriter{w: f.out}

	w.printf("%s: %d occurrence(s) of %q\n", result.FileName, result.Occurrences, f.text)
	for i, window := range result.Windows {
		if i > 0 {
			w.printf("--\n")
		}
		for j, line := range window.Lines {
			lineIdx := window.StartLine + j
			lineNum := lineIdx + 1
			if window.IsMatch(lineIdx) {
				w.printf("  > %4d | %s\n", lineNum, highlightLine(f.highlighter, line, f.text))
			} else {
				w.printf("    %4d | %s\n", lineNum, line)
			}
		}
	}
	w.printf("\n")

	return w.err
}

func (f *TextFormatter) WriteSummary(stats searchtypes.ScanStats, elapsed time.Duration) error {
	w := &errWriter{w: f.out}
	w.printf("Found %d occurrence(s) in %d file(s) in %.1fms (%d examined, %d skipped)\n",
		stats.Occurrences, stats.FilesMatched, float64(elapsed.Microseconds())/1000.0,
		stats.FilesExamined, stats.FilesSkipped)
	return w.err
}

// errWriter keeps the first write error so formatting code stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// JSONFormatter writes one JSON object per line. Line numbers are 1-based,
// matching the text output.
type JSONFormatter struct {
	text    string
	encoder sonic.Encoder
}

type jsonWindow struct {
	StartLine  int      `json:"start_line"`
	Lines      []string `json:"lines"`
	MatchLines []int    `json:"match_lines"`
}

type jsonResult struct {
	Type        string       `json:"type"`
	File        string       `json:"file"`
	Path        string       `json:"path"`
	Query       string       `json:"query"`
	Occurrences int          `json:"occurrences"`
	Windows     []jsonWindow `json:"windows"`
}

type jsonSummary struct {
	Type      string  `json:"type"`
	ElapsedMS float64 `json:"elapsed_ms"`
	searchtypes.ScanStats
}

func NewJSONFormatter(out io.Writer, text string) *JSONFormatter {
	return &JSONFormatter{
		text:    text,
		encoder: sonic.ConfigDefault.NewEncoder(out),
	}
}

func (f *JSONFormatter) WriteResult(result searchtypes.SearchResult) error {
	windows := make([]jsonWindow, 0, len(result.Windows))
	for _, w := range result.Windows {
		matchLines := make([]int, len(w.MatchLines))
		for i, m := range w.MatchLines {
			matchLines[i] = m + 1
		}
		windows = append(windows, jsonWindow{
			StartLine:  w.StartLine + 1,
			Lines:      w.Lines,
			MatchLines: matchLines,
		})
	}

	return f.encoder.Encode(jsonResult{
		Type:        "match",
		File:        result.FileName,
		Path:        result.Path,
		Query:       f.text,
		Occurrences: result.Occurrences,
		Windows:     windows,
	})
}

func (f *JSONFormatter) WriteSummary(stats searchtypes.ScanStats, elapsed time.Duration) error {
	return f.encoder.Encode(jsonSummary{
		Type:      "summary",
		ElapsedMS: float64(elapsed.Microseconds()) / 1000.0,
		ScanStats: stats,
	})
}
