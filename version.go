package k6x

import (
	"fmt"
	"strings"

	mm "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// Version is a semantic version. The zero value is 0.0.0.
type Version struct {
	v *mm.Version
}

// ParseVersion parses a version in the form [v]major[.minor[.patch]][-prerelease].
// Missing minor and patch components default to 0.
func ParseVersion(str string) (Version, error) {
	tag := strings.TrimSpace(str)
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}

	if !semver.IsValid(tag) {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, str)
	}

	v, err := mm.NewVersion(semver.Canonical(tag))
	if err != nil {
		return Version{}, fmt.Errorf("%w: %q", ErrInvalidVersion, str)
	}

	return Version{v: v}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(str string) Version {
	v, err := ParseVersion(str)
	if err != nil {
		panic(err)
	}

	return v
}

func (v Version) semver() *mm.Version {
	if v.v == nil {
		return zeroVersion
	}

	return v.v
}

// Compare returns -1, 0 or 1 if v is less than, equal to or greater than o.
func (v Version) Compare(o Version) int {
	return v.semver().Compare(o.semver())
}

// Equal reports whether v and o are the same version.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// String returns the version without the "v" prefix (e.g. 0.50.0).
func (v Version) String() string {
	return v.semver().String()
}

// Tag returns the version with the "v" prefix (e.g. v0.50.0).
func (v Version) Tag() string {
	return "v" + v.String()
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

var zeroVersion = mm.MustParse("0.0.0") //nolint:gochecknoglobals
