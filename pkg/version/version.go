// Package version reports build metadata, set with -ldflags or read from
// the module build information.
package version

import (
	"runtime"
	"runtime/debug"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Info describes a build
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Compiler  string `json:"compiler"`
	Source    string `json:"source,omitempty"`
	Tag       string `json:"tag,omitempty"`
	Branch    string `json:"branch,omitempty"`
	Hash      string `json:"hash,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	Platform  string `json:"platform,omitempty"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Set with -ldflags "-X github.com/mutablelogic/go-jack/pkg/version.GitTag=..."
var (
	GitTag    string
	GitBranch string
)

const (
	shortHash = 12
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the tag, branch or short commit hash of the build, or
// "dev" when none is known
func Version() string {
	return Get("").Version
}

// Get returns the build information for the named executable
func Get(name string) Info {
	info := Info{
		Name:     name,
		Compiler: runtime.Version(),
		Tag:      GitTag,
		Branch:   GitBranch,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if build, ok := debug.ReadBuildInfo(); ok {
		info.Source = build.Main.Path
		for _, setting := range build.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Hash = setting.Value
			case "vcs.time":
				info.BuildTime = setting.Value
			case "vcs.modified":
				info.Modified = setting.Value == "true"
			}
		}
	}

	switch {
	case info.Tag != "":
		info.Version = info.Tag
	case info.Branch != "":
		info.Version = info.Branch
	case len(info.Hash) >= shortHash:
		info.Version = info.Hash[:shortHash]
	default:
		info.Version = "dev"
	}
	return info
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (i Info) String() string {
	return types.Stringify(i)
}
