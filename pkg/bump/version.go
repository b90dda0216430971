// pkg/bump/version.go

package bump

import (
	"regexp"

	"github.com/hashicorp/go-version"
)

// go-version also accepts "1", "1.2" and leading-v forms; release tags must
// carry a full MAJOR.MINOR.PATCH core.
var semverCore = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
	`(?:-[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?(?:\+[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*)?$`)

// VersionValidator reports whether a stripped tag is a release version.
type VersionValidator func(candidate string) bool

// IsValidVersion reports whether candidate is a strict semantic version,
// e.g. "1.2.3", "1.0.0-rc.1" or "2.0.0+build.5".
func IsValidVersion(candidate string) bool {
	if !semverCore.MatchString(candidate) {
		return false
	}
	_, err := version.NewSemver(candidate)
	return err == nil
}
