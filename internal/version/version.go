// Package version reports build information for the arbitrage binaries.
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/ademicho123/Retail-Arbitrage/internal/version.Version=1.2.0"
//
// Development builds fall back to the VCS stamp embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags
var (
	Version = "0.0.0-dev"
	Commit  = ""
	Date    = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build info, filling gaps from the embedded VCS stamp.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		applyBuildSettings(&info, bi.Settings)
	}
	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return info
}

// applyBuildSettings copies vcs.* settings onto fields not set by ldflags.
func applyBuildSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String returns a human-readable version line.
func (i Info) String() string {
	return fmt.Sprintf("%s (%s) built %s with %s", i.Short(), i.Commit, i.Date, i.GoVersion)
}

// Short returns the version, marked when built from a modified tree.
func (i Info) Short() string {
	if i.Modified {
		return i.Version + "+modified"
	}
	return i.Version
}
