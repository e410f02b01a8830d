package k6x

import (
	"path"
	"sort"
	"strings"
)

// SourceUnit is a loaded script with its directives and references to other scripts.
type SourceUnit struct {
	// Path of the script
	Path string
	// Source is the script text
	Source []byte
	// Directives of the script's leading block, in source order
	Directives []Directive
	// Imports are the resolved paths of the local imports
	Imports []string
	// Reexports are the resolved paths of the local re-exports
	Reexports []string
	// External are the non-local module specifiers (k6 modules, extensions, remote modules)
	External []string

	// resolved path -> specifier as written
	specifiers map[string]string
}

// classify resolves the local specifiers and records the other ones as external.
func (u *SourceUnit) classify(specifiers []string) []string {
	var local []string

	if u.specifiers == nil {
		u.specifiers = make(map[string]string)
	}

	for _, spec := range specifiers {
		if !IsLocal(spec) {
			u.External = append(u.External, spec)

			continue
		}

		resolved := resolvePath(u.Path, spec)
		if _, found := u.specifiers[resolved]; !found {
			u.specifiers[resolved] = spec
		}

		local = append(local, resolved)
	}

	return local
}

// Dependencies returns the sorted, distinct paths of the local scripts the unit depends on.
func (u *SourceUnit) Dependencies() []string {
	seen := make(map[string]struct{}, len(u.Imports)+len(u.Reexports))
	deps := make([]string, 0, len(u.Imports)+len(u.Reexports))

	for _, list := range [][]string{u.Imports, u.Reexports} {
		for _, dep := range list {
			if _, dup := seen[dep]; !dup {
				seen[dep] = struct{}{}
				deps = append(deps, dep)
			}
		}
	}

	sort.Strings(deps)

	return deps
}

// Requirements parses the unit's directives.
func (u *SourceUnit) Requirements() ([]Requirement, error) {
	reqs := make([]Requirement, 0, len(u.Directives))

	for _, d := range u.Directives {
		req, err := ParseDirective(d)
		if err != nil {
			return nil, err
		}

		reqs = append(reqs, req)
	}

	return reqs, nil
}

// IsLocal reports whether an import specifier refers to a script file
// rather than to a k6 module, an extension or a remote module.
func IsLocal(specifier string) bool {
	return strings.HasPrefix(specifier, "./") ||
		strings.HasPrefix(specifier, "../") ||
		strings.HasPrefix(specifier, "/")
}

// extension modules are imported as k6/x/<name>
const extensionPrefix = "k6/x/"

// IsExtension reports whether an import specifier refers to an extension module.
func IsExtension(specifier string) bool {
	return strings.HasPrefix(specifier, extensionPrefix) && len(specifier) > len(extensionPrefix)
}

// resolvePath returns the path of a local specifier imported by importer.
func resolvePath(importer, specifier string) string {
	if strings.HasPrefix(specifier, "/") {
		return path.Clean(specifier)
	}

	return path.Join(path.Dir(importer), specifier)
}
