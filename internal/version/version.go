package version

import "runtime/debug"

// Version will be set during build time via ldflags.
var Version = "dev"

// BuildTime will be set during build time via ldflags.
var BuildTime = "unknown"

// GitCommit will be set during build time via ldflags.
var GitCommit = "unknown"

// GetVersionInfo returns the effective version. When ldflags left it at
// "dev", the module build info supplies a VCS revision if one was embedded.
func GetVersionInfo() string {
	if Version != "dev" {
		return Version
	}
	if rev := vcsRevision(); rev != "" {
		return "dev-" + rev
	}
	return Version
}

// GetFullVersionInfo returns detailed version information.
func GetFullVersionInfo() string {
	version := GetVersionInfo()
	if BuildTime != "unknown" && GitCommit != "unknown" {
		return version + " (built " + BuildTime + ", commit " + GitCommit + ")"
	}
	if GitCommit != "unknown" {
		return version + " (commit " + GitCommit + ")"
	}
	return version
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			if len(s.Value) > 7 {
				return s.Value[:7]
			}
			return s.Value
		}
	}
	return ""
}
