// Package versioning provides the semantic version value type and bump
// arithmetic used by release inference. Versions are strict three-part
// "major.minor.patch" values; anything looser (leading "v", prerelease,
// build metadata) is rejected so that VERSION file content stays canonical.
package versioning

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// ErrInvalidFormat indicates a version string that is not exactly
// "{major}.{minor}.{patch}".
var ErrInvalidFormat = errors.New("invalid version format")

// Version is an immutable semantic version triple.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
}

// Parse parses a strict "{major}.{minor}.{patch}" string. Prerelease and
// build metadata suffixes fail, as does a "v" prefix.
func Parse(s string) (Version, error) {
	if strings.Count(s, ".") != 2 {
		return Version{}, errors.Wrapf(ErrInvalidFormat, "%q", s)
	}

	sv, err := semver.StrictNewVersion(s)
	if err != nil {
		return Version{}, errors.Wrapf(ErrInvalidFormat, "%q", s)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return Version{}, errors.Wrapf(ErrInvalidFormat, "%q", s)
	}

	return Version{Major: sv.Major(), Minor: sv.Minor(), Patch: sv.Patch()}, nil
}

// String renders the canonical "{major}.{minor}.{patch}" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders versions lexicographically on (major, minor, patch).
// It returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	if c := compareUint(v.Major, o.Major); c != 0 {
		return c
	}
	if c := compareUint(v.Minor, o.Minor); c != 0 {
		return c
	}
	return compareUint(v.Patch, o.Patch)
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Bump classifies the magnitude of a release.
type Bump int

const (
	// BumpNone leaves the version unchanged.
	BumpNone Bump = iota
	// BumpPatch increments the patch component.
	BumpPatch
	// BumpMinor increments the minor component and resets patch.
	BumpMinor
	// BumpMajor increments the major component and resets minor and patch.
	BumpMajor
)

func (b Bump) String() string {
	switch b {
	case BumpMajor:
		return "major"
	case BumpMinor:
		return "minor"
	case BumpPatch:
		return "patch"
	default:
		return "none"
	}
}

// ParseBump parses a bump kind name as used on the CLI.
func ParseBump(s string) (Bump, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return BumpMajor, nil
	case "minor":
		return BumpMinor, nil
	case "patch":
		return BumpPatch, nil
	case "none":
		return BumpNone, nil
	}
	return BumpNone, errors.Errorf("unknown bump kind %q", s)
}

// Next returns the version after applying the bump. Lower components reset
// to zero so the result is always the smallest version above the current one
// for the given magnitude.
func (v Version) Next(b Bump) Version {
	switch b {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	case BumpPatch:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return v
	}
}
