// Package buildinfo reports the running binary's version.
//
// Release builds set the variables at link time, e.g.
//
//	go build -ldflags "-X github.com/aidanlsb/vaultkit/internal/buildinfo.Version=v0.1.0"
//
// Local builds leave them empty and fall back to runtime/debug build info.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// ModulePath is reported when the binary carries no module information.
const ModulePath = "github.com/aidanlsb/vaultkit"

const devel = "devel"

var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info describes the running build.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
}

// Platform returns "goos/goarch".
func (i Info) Platform() string {
	return i.GOOS + "/" + i.GOARCH
}

var readBuildInfo = debug.ReadBuildInfo

// Current merges runtime/debug build info with the link-time variables.
// Values embedded by the go tool win; ldflags fill whatever is missing.
func Current() Info {
	info := Info{
		Version:    devel,
		ModulePath: ModulePath,
		GoVersion:  runtime.Version(),
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		fromDebug(&info, bi)
	}

	if info.Version == devel && Version != "" {
		info.Version = normalize(Version)
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
	return info
}

func fromDebug(info *Info, bi *debug.BuildInfo) {
	if bi.Main.Path != "" {
		info.ModulePath = bi.Main.Path
	}
	info.Version = normalize(bi.Main.Version)
	if bi.GoVersion != "" {
		info.GoVersion = bi.GoVersion
	}

	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	if v := settings["GOOS"]; v != "" {
		info.GOOS = v
	}
	if v := settings["GOARCH"]; v != "" {
		info.GOARCH = v
	}
	info.Commit = settings["vcs.revision"]
	info.CommitTime = settings["vcs.time"]
	info.Modified = strings.EqualFold(settings["vcs.modified"], "true")
}

func normalize(version string) string {
	if version == "" || version == "(devel)" {
		return devel
	}
	return version
}
