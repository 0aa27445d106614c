package acquire

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// RequiredVersion is the capnp release the vendored source tree is pinned to.
// Update it whenever the vendored tree is advanced.
const RequiredVersion = "0.11.0"

// BannerPrefix is the fixed lead-in of `capnp --version` output.
const BannerPrefix = "Cap'n Proto version "

// Banner returns the exact version banner a compatible compiler prints for version.
func Banner(version string) string {
	return BannerPrefix + version
}

// versionHint describes how an observed banner relates to the required
// version, e.g. "older than required". It returns "" when either side does
// not parse as semver. It never decides compatibility.
func versionHint(observedBanner, required string) string {
	observed := strings.TrimPrefix(strings.TrimSpace(observedBanner), BannerPrefix)

	have, err := semver.NewVersion(observed)
	if err != nil {
		return ""
	}
	want, err := semver.NewVersion(required)
	if err != nil {
		return ""
	}

	switch have.Compare(want) {
	case -1:
		return "older than required"
	case 1:
		return "newer than required"
	default:
		// Same numeric version with different banner text, e.g. a "-dev" tag
		return "same release, different build"
	}
}
