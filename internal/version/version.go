// Package version identifies the fsh release and the binary it runs in.
package version

import (
	"runtime/debug"
	"strings"
	"sync"
)

// Version is the fsh release number
const Version = "0.1.0"

// Release builds stamp these with
//
//	-ldflags "-X github.com/FractalWanderer/FileSystemHelper/internal/version.Commit=... -X ...Date=..."
var (
	Commit = ""
	Date   = ""
)

// Build describes the running binary
type Build struct {
	Version   string
	Commit    string
	Date      string
	Modified  bool
	GoVersion string
}

var current = sync.OnceValue(func() Build {
	return fromBuildInfo(debug.ReadBuildInfo())
})

// Current returns the description of the running binary
func Current() Build {
	return current()
}

// fromBuildInfo fills whatever the linker flags left empty from the VCS
// settings the go command embeds.
func fromBuildInfo(info *debug.BuildInfo, ok bool) Build {
	b := Build{Version: Version, Commit: Commit, Date: Date}
	if !ok || info == nil {
		return b
	}

	b.GoVersion = info.GoVersion
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" {
				b.Commit = s.Value
			}
		case "vcs.time":
			if b.Date == "" {
				b.Date = s.Value
			}
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	return b
}

// String renders the build for --version, e.g.
// "fsh 0.1.0 (3f2a9c1d7e0b-dirty, 2026-10-18T09:00:00Z, go1.25.0)".
func (b Build) String() string {
	var details []string
	if b.Commit != "" {
		commit := b.Commit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		if b.Modified {
			commit += "-dirty"
		}
		details = append(details, commit)
	}
	if b.Date != "" {
		details = append(details, b.Date)
	}
	if b.GoVersion != "" {
		details = append(details, b.GoVersion)
	}

	out := "fsh " + b.Version
	if len(details) > 0 {
		out += " (" + strings.Join(details, ", ") + ")"
	}
	return out
}
