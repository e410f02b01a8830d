package k6x

import (
	"fmt"
	"strings"
)

// Operator is the comparison operator of a version constraint.
type Operator int

const (
	// OpAny is satisfied by every version.
	OpAny Operator = iota
	// OpAtLeast is satisfied by versions greater than or equal to the constraint's version.
	OpAtLeast
	// OpExact is satisfied only by the constraint's version.
	OpExact
)

func (op Operator) String() string {
	switch op {
	case OpAtLeast:
		return ">="
	case OpExact:
		return "=="
	default:
		return "*"
	}
}

// Constraint is a version constraint. The zero value is unconstrained.
type Constraint struct {
	Op      Operator
	Version Version
}

// Any returns the unconstrained constraint.
func Any() Constraint {
	return Constraint{}
}

// AtLeast returns a constraint satisfied by v or any greater version.
func AtLeast(v Version) Constraint {
	return Constraint{Op: OpAtLeast, Version: v}
}

// Exactly returns a constraint satisfied only by v.
func Exactly(v Version) Constraint {
	return Constraint{Op: OpExact, Version: v}
}

// ParseConstraint parses a constraint: "*", "[>=|==] [v]X.Y.Z".
// A missing operator means ">=". The operator may be separated from the version by blanks.
func ParseConstraint(str string) (Constraint, error) {
	text := strings.TrimSpace(str)
	if text == "" {
		return Constraint{}, fmt.Errorf("%w: missing version constraint", ErrInvalidVersion)
	}

	if text == "*" {
		return Any(), nil
	}

	op := OpAtLeast

	switch {
	case strings.HasPrefix(text, ">="):
		text = text[2:]
	case strings.HasPrefix(text, "=="):
		op = OpExact
		text = text[2:]
	case strings.ContainsAny(text[:1], "<>=!~^"):
		return Constraint{}, fmt.Errorf("%w: unsupported operator in %q", ErrInvalidVersion, str)
	}

	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, " \t") {
		return Constraint{}, fmt.Errorf("%w: %q", ErrInvalidVersion, str)
	}

	version, err := ParseVersion(text)
	if err != nil {
		return Constraint{}, err
	}

	return Constraint{Op: op, Version: version}, nil
}

// Check reports whether v satisfies the constraint.
func (c Constraint) Check(v Version) bool {
	switch c.Op {
	case OpAtLeast:
		return v.Compare(c.Version) >= 0
	case OpExact:
		return v.Equal(c.Version)
	default:
		return true
	}
}

// IsAny reports whether the constraint is unconstrained.
func (c Constraint) IsAny() bool {
	return c.Op == OpAny
}

// Equal reports whether c and o are the same constraint.
func (c Constraint) Equal(o Constraint) bool {
	if c.Op != o.Op {
		return false
	}

	return c.Op == OpAny || c.Version.Equal(o.Version)
}

// Merge returns the constraint satisfied exactly by the versions satisfying both c and o.
// It returns ErrIncompatibleConstraints when no version satisfies both.
// Merge is commutative, associative and idempotent; the unconstrained constraint is its identity.
func (c Constraint) Merge(o Constraint) (Constraint, error) {
	switch {
	case c.Op == OpAny:
		return o, nil
	case o.Op == OpAny:
		return c, nil
	case c.Op == OpAtLeast && o.Op == OpAtLeast:
		if o.Version.Compare(c.Version) > 0 {
			return o, nil
		}

		return c, nil
	case c.Op == OpExact && o.Check(c.Version):
		return c, nil
	case o.Op == OpExact && c.Check(o.Version):
		return o, nil
	default:
		return Constraint{}, fmt.Errorf("%w: %s <-> %s", ErrIncompatibleConstraints, c, o)
	}
}

// Min returns the minimum version satisfying the constraint.
func (c Constraint) Min() Version {
	if c.Op == OpAny {
		return Version{}
	}

	return c.Version
}

func (c Constraint) String() string {
	if c.Op == OpAny {
		return c.Op.String()
	}

	return c.Op.String() + c.Version.String()
}

func (c Constraint) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Constraint) UnmarshalText(text []byte) error {
	parsed, err := ParseConstraint(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
