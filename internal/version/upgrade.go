package version

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// IsNewer reports whether latest is a release after current. Development
// builds never upgrade.
func IsNewer(current, latest string) bool {
	if IsDevelopment(current) {
		return false
	}
	c, l := canonical(current), canonical(latest)
	if !semver.IsValid(c) || !semver.IsValid(l) {
		return false
	}
	return semver.Compare(l, c) > 0
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// IsHomebrew reports whether the running binary was installed by Homebrew.
func IsHomebrew() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return strings.Contains(exe, "/Cellar/") || strings.Contains(exe, "/homebrew/")
}
