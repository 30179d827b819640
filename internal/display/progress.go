package display

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

const (
	// DefaultRedrawInterval limits how often the bar is redrawn
	DefaultRedrawInterval = 100 * time.Millisecond

	clearLine = "\r\x1b[K"
)

// ProgressBar renders scan progress on a single terminal line. It is
// advisory: write errors are ignored and nothing blocks the scan.
type ProgressBar struct {
	out      io.Writer
	bar      progress.Model
	interval time.Duration
	now      func() time.Time

	lastDraw time.Time
	visible  bool
}

// ProgressOption configures a ProgressBar
type ProgressOption func(*ProgressBar)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) ProgressOption {
	return func(p *ProgressBar) { p.now = now }
}

// WithRedrawInterval overrides DefaultRedrawInterval
func WithRedrawInterval(d time.Duration) ProgressOption {
	return func(p *ProgressBar) { p.interval = d }
}

func NewProgressBar(out io.Writer, opts ...ProgressOption) *ProgressBar {
	p := &ProgressBar{
		out:      out,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		interval: DefaultRedrawInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Update redraws the bar, at most once per interval. The final state and
// the first draw after a Clear are never throttled.
func (p *ProgressBar) Update(sp searchtypes.ScanProgress) {
	now := p.now()
	done := sp.Total > 0 && sp.Current >= sp.Total
	if p.visible && !done && now.Sub(p.lastDraw) < p.interval {
		return
	}
	p.lastDraw = now
	p.visible = true

	if sp.Total > 0 {
		_, _ = fmt.Fprintf(p.out, "%s%s %d/%d files", clearLine, p.bar.ViewAs(sp.Fraction()), sp.Current, sp.Total)
	} else {
		_, _ = fmt.Fprintf(p.out, "%sscanning... %d files", clearLine, sp.Current)
	}
}

// Clear erases the bar so other output can take the line
func (p *ProgressBar) Clear() {
	if !p.visible {
		return
	}
	_, _ = io.WriteString(p.out, clearLine)
	p.visible = false
}
