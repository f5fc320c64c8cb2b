// Package buildinfo carries release metadata stamped with -ldflags, e.g.
//
//	-X github.com/m3rciful/salestrainer/core/buildinfo.Version=v0.3.0
//
// Commit and Date fall back to the VCS stamp the go tool embeds.
package buildinfo

import "runtime/debug"

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "" {
				Date = s.Value
			}
		}
	}
	if Commit == "" {
		Commit = "local"
	}
}
