package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	vcs := &debug.BuildInfo{
		GoVersion: "go1.25.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "3f2a9c1d7e0b5a4c"},
			{Key: "vcs.time", Value: "2026-10-18T09:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "linux"},
		},
	}

	tests := []struct {
		name string
		info *debug.BuildInfo
		ok   bool
		want string
	}{
		{"no build info", nil, false, "fsh " + Version},
		{"toolchain only", &debug.BuildInfo{GoVersion: "go1.25.0"}, true, "fsh " + Version + " (go1.25.0)"},
		{"vcs settings", vcs, true, "fsh " + Version + " (3f2a9c1d7e0b-dirty, 2026-10-18T09:00:00Z, go1.25.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fromBuildInfo(tt.info, tt.ok).String())
		})
	}
}

func TestFromBuildInfo_LinkerFlagsWin(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	t.Cleanup(func() { Commit, Date = oldCommit, oldDate })
	Commit, Date = "abc123", "2026-01-02"

	b := fromBuildInfo(&debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "ffffffffffffffff"},
			{Key: "vcs.time", Value: "2020-01-01T00:00:00Z"},
		},
	}, true)

	assert.Equal(t, "abc123", b.Commit)
	assert.Equal(t, "2026-01-02", b.Date)
}

func TestCurrent(t *testing.T) {
	b := Current()
	assert.Equal(t, Version, b.Version)
	assert.True(t, strings.HasPrefix(b.String(), "fsh "+Version))
	assert.Equal(t, b, Current())
}
