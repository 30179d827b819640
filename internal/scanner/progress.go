package scanner

import (
	"sync/atomic"

	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

// ProgressSink receives progress updates. Implementations must not block.
type ProgressSink interface {
	Update(progress searchtypes.ScanProgress)
}

// ProgressTracker counts examined files against the expected total and
// forwards every change to its sink.
type ProgressTracker struct {
	total    int64 // atomic
	current  int64 // atomic
	totalSet atomic.Bool
	sink     ProgressSink
}

// NewProgressTracker creates a tracker; sink may be nil
func NewProgressTracker(sink ProgressSink) *ProgressTracker {
	return &ProgressTracker{sink: sink}
}

// SetTotal sets the number of files the scan expects to examine
func (pt *ProgressTracker) SetTotal(total int) {
	atomic.StoreInt64(&pt.total, int64(total))
	pt.totalSet.Store(true)
	pt.notify()
}

// Advance records one examined file. Files created after counting can push
// Current past the counted total; Total follows so Current never exceeds it.
// Without SetTotal the total stays 0, meaning unknown.
func (pt *ProgressTracker) Advance() {
	current := atomic.AddInt64(&pt.current, 1)
	for {
		total := atomic.LoadInt64(&pt.total)
		if !pt.totalSet.Load() || current <= total {
			break
		}
		if atomic.CompareAndSwapInt64(&pt.total, total, current) {
			break
		}
	}
	pt.notify()
}

// Snapshot returns the current progress
func (pt *ProgressTracker) Snapshot() searchtypes.ScanProgress {
	return searchtypes.ScanProgress{
		Current: int(atomic.LoadInt64(&pt.current)),
		Total:   int(atomic.LoadInt64(&pt.total)),
	}
}

func (pt *ProgressTracker) notify() {
	if pt.sink != nil {
		pt.sink.Update(pt.Snapshot())
	}
}
