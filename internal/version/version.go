package version

import (
	"runtime/debug"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
)

// Header carries the client build version on every API request.
const Header = "X-Client-Version"

const (
	versionDevel   = "devel"
	versionUnknown = "unknown"
)

// version is set via -ldflags "-X" by goreleaser; go install builds read it
// from the module build info instead.
var (
	version = versionDevel
	once    sync.Once
)

func Get() string {
	once.Do(func() {
		if version != versionDevel {
			return
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
				version = v
			}
		}
	})
	return version
}

// IsDevelopment reports whether v is a local or pseudo-version build that
// should skip compatibility checks.
func IsDevelopment(v string) bool {
	switch v {
	case "", versionDevel, versionUnknown:
		return true
	}
	return strings.Contains(v, "dirty") || strings.Contains(v, "-0.")
}

// ParseMajor returns the major number of v without its "v" prefix, or "0"
// when v is not semver.
func ParseMajor(v string) string {
	major := semver.Major(canonical(v))
	if major == "" {
		return "0"
	}
	return strings.TrimPrefix(major, "v")
}
