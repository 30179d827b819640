package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

// bracketHighlighter makes highlighting visible without ANSI codes
type bracketHighlighter struct{}

func (bracketHighlighter) Highlight(match string) string {
	return "[" + match + "]"
}

func sampleResult() searchtypes.SearchResult {
	return searchtypes.SearchResult{
		FileName:    "src/main.go",
		Path:        "/work/src/main.go",
		Occurrences: 2,
		Windows: []searchtypes.ContextWindow{
			{StartLine: 2, Lines: []string{"before", "the needle", "after"}, MatchLines: []int{3}},
			{StartLine: 9, Lines: []string{"needle again"}, MatchLines: []int{9}},
		},
	}
}

func TestTextFormatter_WriteResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(&buf, "needle", PlainHighlighter{})

	require.NoError(t, f.WriteResult(sampleResult()))

	want := strings.Join([]string{
		`src/main.go: 2 occurrence(s) of "needle"`,
		"       3 | before",
		"  >    4 | the needle",
		"       5 | after",
		"--",
		"  >   10 | needle again",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestTextFormatter_HighlightsMatchLinesOnly(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(&buf, "needle", bracketHighlighter{})

	result := searchtypes.SearchResult{
		FileName:    "a.txt",
		Occurrences: 1,
		Windows: []searchtypes.ContextWindow{
			{StartLine: 0, Lines: []string{"needle and needle", "plain"}, MatchLines: []int{0}},
		},
	}
	require.NoError(t, f.WriteResult(result))

	assert.Contains(t, buf.String(), "  >    1 | [needle] and [needle]\n")
	assert.Contains(t, buf.String(), "       2 | plain\n")
	assert.Contains(t, buf.String(), `of "needle"`, "header is never decorated")
}

func TestTextFormatter_MergedWindow(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(&buf, "x", nil)

	result := searchtypes.SearchResult{
		FileName:    "m.txt",
		Occurrences: 2,
		Windows: []searchtypes.ContextWindow{
			{StartLine: 0, Lines: []string{"x1", "mid", "x2"}, MatchLines: []int{0, 2}},
		},
	}
	require.NoError(t, f.WriteResult(result))

	out := buf.String()
	assert.Contains(t, out, "  >    1 | x1\n")
	assert.Contains(t, out, "       2 | mid\n")
	assert.Contains(t, out, "  >    3 | x2\n")
	assert.NotContains(t, out, "--")
}

func TestTextFormatter_WriteSummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatter(&buf, "x", nil)

	stats := searchtypes.ScanStats{FilesExamined: 10, FilesSkipped: 2, FilesMatched: 3, Occurrences: 7}
	require.NoError(t, f.WriteSummary(stats, 1500*time.Microsecond))

	assert.Equal(t, "Found 7 occurrence(s) in 3 file(s) in 1.5ms (10 examined, 2 skipped)\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestTextFormatter_WriteError(t *testing.T) {
	f := NewTextFormatter(failingWriter{}, "needle", nil)
	assert.Error(t, f.WriteResult(sampleResult()))
}

func decodeJSONLines(t *testing.T, r io.Reader) []map[string]interface{} {
	t.Helper()
	var objects []map[string]interface{}
	dec := json.NewDecoder(r)
	for {
		var obj map[string]interface{}
		err := dec.Decode(&obj)
		if errors.Is(err, io.EOF) {
			return objects
		}
		require.NoError(t, err)
		objects = append(objects, obj)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf, "needle")

	require.NoError(t, f.WriteResult(sampleResult()))
	require.NoError(t, f.WriteSummary(searchtypes.ScanStats{FilesExamined: 4, FilesMatched: 1, Occurrences: 2}, 2*time.Millisecond))

	objects := decodeJSONLines(t, &buf)
	require.Len(t, objects, 2)

	match := objects[0]
	assert.Equal(t, "match", match["type"])
	assert.Equal(t, "src/main.go", match["file"])
	assert.Equal(t, "needle", match["query"])
	assert.Equal(t, 2.0, match["occurrences"])

	windows := match["windows"].([]interface{})
	require.Len(t, windows, 2)
	first := windows[0].(map[string]interface{})
	assert.Equal(t, 3.0, first["start_line"])
	assert.Equal(t, []interface{}{4.0}, first["match_lines"])

	summary := objects[1]
	assert.Equal(t, "summary", summary["type"])
	assert.Equal(t, 4.0, summary["files_examined"])
	assert.Equal(t, 2.0, summary["occurrences"])
	assert.Equal(t, 2.0, summary["elapsed_ms"])
}
