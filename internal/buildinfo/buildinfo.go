// Package buildinfo reports the version of the running binary.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// ModulePath is reported when the binary carries no module information.
const ModulePath = "github.com/wikilinx/wikilinx"

// Release builds inject these through -ldflags "-X". Local builds leave
// them empty.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info describes a build.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// Current combines the Go build metadata with any linker-injected values.
// Linker values only fill fields the build metadata left empty.
func Current() Info {
	info := Info{
		Version:    "devel",
		ModulePath: ModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		info.Version = normalizeVersion(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}

		goos, goarch := setting(bi, "GOOS"), setting(bi, "GOARCH")
		if goos != "" && goarch != "" {
			info.Platform = goos + "/" + goarch
		}
		info.Commit = setting(bi, "vcs.revision")
		info.CommitTime = setting(bi, "vcs.time")
		info.Modified = strings.EqualFold(setting(bi, "vcs.modified"), "true")
	}

	if info.Version == "devel" && Version != "" {
		info.Version = normalizeVersion(Version)
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
	return info
}

// Short returns the version string shown in logs.
func Short() string {
	info := Current()
	if info.Commit == "" {
		return info.Version
	}
	commit := info.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return info.Version + "+" + commit
}

func normalizeVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "devel"
	}
	return v
}

func setting(bi *debug.BuildInfo, key string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
