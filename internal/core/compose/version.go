package compose

import (
	"strings"

	"github.com/blang/semver/v4"
)

// =============================================================================
// Compose File Version
// =============================================================================

// Version is a compose file format version such as "2.3" or "3.10".
// Versions compare by dotted numeric segments, so "3.10" is newer than "3.9".
type Version struct {
	raw    string
	parsed semver.Version
}

// LongVolumeSyntaxVersion is the first format version that accepts the long
// volume syntax.
var LongVolumeSyntaxVersion = MustParseVersion("3.2")

// ParseVersion parses a compose file version string.
//
// Example:
//
//	v, _ := ParseVersion("3.10")
//	v.AtLeast(MustParseVersion("3.2")) // true
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Version{}, NewParseError("version", "version must not be empty", ErrInvalidVersion)
	}
	parsed, err := semver.ParseTolerant(raw)
	if err != nil {
		return Version{}, NewParseError("version", "cannot parse version "+raw+": "+err.Error(), ErrInvalidVersion)
	}
	return Version{raw: raw, parsed: parsed}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
// It is intended for package-level constants and tests.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the version exactly as it was given.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether the version was never set.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// Compare returns -1, 0 or +1 depending on whether v is older than, equal to
// or newer than other.
func (v Version) Compare(other Version) int {
	return v.parsed.Compare(other.parsed)
}

// AtLeast reports whether v is equal to or newer than other.
func (v Version) AtLeast(other Version) bool {
	return v.Compare(other) >= 0
}

// supportsLongVolumeSyntax reports whether the long volume syntax is allowed.
func (v Version) supportsLongVolumeSyntax() bool {
	return v.AtLeast(LongVolumeSyntaxVersion)
}
