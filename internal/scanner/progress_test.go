package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FractalWanderer/FileSystemHelper/internal/searchtypes"
)

type recordingSink struct {
	updates []searchtypes.ScanProgress
}

func (s *recordingSink) Update(p searchtypes.ScanProgress) {
	s.updates = append(s.updates, p)
}

func TestProgressTracker(t *testing.T) {
	sink := &recordingSink{}
	pt := NewProgressTracker(sink)

	pt.SetTotal(2)
	pt.Advance()
	pt.Advance()

	assert.Equal(t, searchtypes.ScanProgress{Current: 2, Total: 2}, pt.Snapshot())
	assert.Equal(t, []searchtypes.ScanProgress{
		{Current: 0, Total: 2},
		{Current: 1, Total: 2},
		{Current: 2, Total: 2},
	}, sink.updates)
}

func TestProgressTracker_TotalFollowsNewFiles(t *testing.T) {
	pt := NewProgressTracker(nil)
	pt.SetTotal(1)

	pt.Advance()
	pt.Advance()

	p := pt.Snapshot()
	assert.Equal(t, 2, p.Current)
	assert.Equal(t, 2, p.Total)
}

func TestProgressTracker_FilesAfterEmptyCount(t *testing.T) {
	sink := &recordingSink{}
	pt := NewProgressTracker(sink)
	pt.SetTotal(0)

	pt.Advance()
	pt.Advance()

	assert.Equal(t, searchtypes.ScanProgress{Current: 2, Total: 2}, pt.Snapshot())
	for _, p := range sink.updates {
		assert.LessOrEqual(t, p.Current, p.Total)
	}
}

func TestProgressTracker_NoTotal(t *testing.T) {
	pt := NewProgressTracker(nil)
	pt.Advance()

	assert.Equal(t, searchtypes.ScanProgress{Current: 1, Total: 0}, pt.Snapshot())
}
