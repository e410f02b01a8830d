package k6x

import (
	"errors"
	"fmt"
)

var (
	// Error parsing a "use k6" directive
	ErrMalformedDirective = errors.New("malformed directive")
	// Error resolving a local import to a readable source
	ErrUnresolvedImport = errors.New("unresolved import")
	// Error merging incompatible constraints on the same module
	ErrConflictingRequirement = errors.New("conflicting requirement")
	// Error transforming a script source
	ErrScript = errors.New("script error")
	// Error parsing a version
	ErrInvalidVersion = errors.New("invalid version")
	// Error merging two constraints
	ErrIncompatibleConstraints = errors.New("incompatible constraints")
)

// DirectiveError reports a directive that does not conform to the directive grammar.
type DirectiveError struct {
	// Raw is the offending string literal content
	Raw string
	// Location of the string literal
	Location Location
	// Reason describes what was wrong
	Reason string
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", e.Location, ErrMalformedDirective, e.Raw, e.Reason)
}

func (e *DirectiveError) Unwrap() error {
	return ErrMalformedDirective
}

// ImportError reports a local import that can't be resolved to a source.
type ImportError struct {
	// Importer is the path of the importing source
	Importer string
	// Specifier is the import specifier as written
	Specifier string
	// Path is the resolved path of the import
	Path string
	// Cause is the error returned reading Path
	Cause error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s: %s %q (%s)", e.Importer, ErrUnresolvedImport, e.Specifier, e.Path)
}

// Unwrap returns both the sentinel error and the underlying cause.
func (e *ImportError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrUnresolvedImport}
	}

	return []error{ErrUnresolvedImport, e.Cause}
}

// ConflictError reports two requirements on the same module that can't be satisfied together.
type ConflictError struct {
	Module   string
	Existing Requirement
	Incoming Requirement
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"%s: %s: %s (%s) <-> %s (%s)",
		e.Module,
		ErrConflictingRequirement,
		e.Existing.Constraint,
		e.Existing.Source,
		e.Incoming.Constraint,
		e.Incoming.Source,
	)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflictingRequirement
}

func pathError(path string, err error) error {
	return fmt.Errorf("%s: %w", path, err)
}
