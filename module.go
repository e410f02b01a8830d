package k6x

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

var (
	ErrInvalidDependencyFormat = errors.New("invalid dependency format")  //nolint:revive
	ErrInvalidSemanticVersion  = errors.New("invalid dependency version") //nolint:revive
	ErrInvalidPath             = errors.New("invalid dependency path")    //nolint:revive
)

const latestVersion = "latest"

// ParseRequirement parses a requirement from a string of the form name[@version].
// A missing version, or "latest", leaves the module unconstrained.
// Any other version is a lower bound.
func ParseRequirement(req string) (Requirement, error) {
	name, version, found := strings.Cut(strings.TrimSpace(req), "@")

	if found && (name == "" || version == "") {
		return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidDependencyFormat, req)
	}

	if name != RuntimeModule {
		if err := module.CheckImportPath(name); err != nil {
			return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidPath, req)
		}
	}

	constraint := Any()

	if version != "" && version != latestVersion {
		tag := version
		if !strings.HasPrefix(tag, "v") {
			tag = "v" + tag
		}

		if !semver.IsValid(tag) {
			return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidSemanticVersion, req)
		}

		v, err := ParseVersion(tag)
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: %q", ErrInvalidSemanticVersion, req)
		}

		constraint = AtLeast(v)
	}

	return Requirement{
		Module:     name,
		Constraint: constraint,
		Source:     Location{Path: req},
	}, nil
}

// ParseRequirements parses each element of reqs with ParseRequirement.
func ParseRequirements(reqs ...string) ([]Requirement, error) {
	parsed := make([]Requirement, 0, len(reqs))

	for _, req := range reqs {
		r, err := ParseRequirement(req)
		if err != nil {
			return nil, err
		}

		parsed = append(parsed, r)
	}

	return parsed, nil
}
