package k6x

import (
	"fmt"
	"strings"

	"golang.org/x/mod/module"
)

const withKeyword = "with"

// ParseDirective converts a "use k6" directive into a Requirement.
//
// Grammar:
//
//	use k6 <constraint>
//	use k6 with <module> <constraint>
//
// where <constraint> is "*" or an optional ">=" or "==" operator followed by a version.
func ParseDirective(d Directive) (Requirement, error) {
	if !isDirective(d.Raw) {
		return Requirement{}, malformed(d, "missing %q prefix", directivePrefix)
	}

	rest := strings.TrimPrefix(d.Raw, directivePrefix)

	name := RuntimeModule

	fields := strings.Fields(rest)
	if len(fields) > 0 && fields[0] == withKeyword {
		if len(fields) < 2 {
			return Requirement{}, malformed(d, "missing module name")
		}

		name = fields[1]
		if name == RuntimeModule {
			return Requirement{}, malformed(d, "module name %q is reserved", RuntimeModule)
		}

		if err := checkModule(name); err != nil {
			return Requirement{}, malformed(d, "invalid module name %q", name)
		}

		fields = fields[2:]
	}

	if len(fields) == 0 {
		return Requirement{}, malformed(d, "missing version constraint")
	}

	if len(fields) > 2 || (len(fields) == 2 && fields[0] != ">=" && fields[0] != "==") {
		return Requirement{}, malformed(d, "unexpected %q", strings.Join(fields, " "))
	}

	constraint, err := ParseConstraint(strings.Join(fields, ""))
	if err != nil {
		return Requirement{}, malformed(d, "%s", err.Error())
	}

	return Requirement{Module: name, Constraint: constraint, Source: d.Location}, nil
}

func checkModule(name string) error {
	return module.CheckImportPath(name)
}

func malformed(d Directive, format string, args ...interface{}) error {
	return &DirectiveError{Raw: d.Raw, Location: d.Location, Reason: fmt.Sprintf(format, args...)}
}
