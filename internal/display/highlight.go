package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StyleMatch decorates matched text in terminal output
var StyleMatch = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FCD34D")).
	Background(lipgloss.Color("#78350F"))

// Highlighter decorates a matched substring
type Highlighter interface {
	Highlight(match string) string
}

// LipglossHighlighter renders matches with StyleMatch. lipgloss drops the
// styling itself when stdout is not a terminal.
type LipglossHighlighter struct {
	Style lipgloss.Style
}

func NewLipglossHighlighter() LipglossHighlighter {
	return LipglossHighlighter{Style: StyleMatch}
}

func (h LipglossHighlighter) Highlight(match string) string {
	return h.Style.Render(match)
}

// PlainHighlighter leaves matches untouched (--no-highlight)
type PlainHighlighter struct{}

func (PlainHighlighter) Highlight(match string) string {
	return match
}

// highlightLine decorates every occurrence of target in line
func highlightLine(h Highlighter, line, target string) string {
	if h == nil || target == "" {
		return line
	}
	decorated := h.Highlight(target)
	if decorated == target {
		return line
	}
	return strings.ReplaceAll(line, target, decorated)
}
