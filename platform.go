package k6x

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrInvalidPlatform is returned parsing a platform not in the form os/arch.
var ErrInvalidPlatform = errors.New("invalid platform") //nolint:revive

// Platform is the target of a build.
type Platform struct {
	OS   string
	Arch string
}

var supportedPlatforms = []Platform{ //nolint:gochecknoglobals
	{OS: "linux", Arch: "amd64"},
	{OS: "linux", Arch: "arm64"},
	{OS: "windows", Arch: "amd64"},
	{OS: "windows", Arch: "arm64"},
	{OS: "darwin", Arch: "amd64"},
	{OS: "darwin", Arch: "arm64"},
}

// RuntimePlatform returns the platform of the running program.
func RuntimePlatform() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// ParsePlatform parses a platform in the form os/arch.
func ParsePlatform(str string) (Platform, error) {
	os, arch, found := strings.Cut(strings.TrimSpace(str), "/")
	if !found || os == "" || arch == "" || strings.Contains(arch, "/") {
		return Platform{}, fmt.Errorf("%w: %q", ErrInvalidPlatform, str)
	}

	return Platform{OS: os, Arch: arch}, nil
}

// SupportedPlatforms returns the platforms the build service can build for.
func SupportedPlatforms() []Platform {
	platforms := make([]Platform, len(supportedPlatforms))
	copy(platforms, supportedPlatforms)

	return platforms
}

// Supported reports whether the build service can build for the platform.
func (p Platform) Supported() bool {
	for _, supported := range supportedPlatforms {
		if p == supported {
			return true
		}
	}

	return false
}

func (p Platform) String() string {
	return p.OS + "/" + p.Arch
}
