// Package version reports which hubledger build is running.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via ldflags. Builds without them fall back to the VCS
// stamp the Go toolchain embeds.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info describes a build.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	Modified  bool
}

// Current returns the running build, filling unset fields from build info.
func Current() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = fromBuildSettings(info, bi.Settings)
	}
	return info
}

func fromBuildSettings(info Info, settings []debug.BuildSetting) Info {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildTime == "unknown" {
				info.BuildTime = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// String renders the build as one line.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	if i.Modified {
		commit += "+dirty"
	}
	return fmt.Sprintf("hubledger %s (commit: %s, built: %s)", i.Version, commit, i.BuildTime)
}

// String returns the version line of the running build.
func String() string {
	return Current().String()
}
