package k6x

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
)

// RuntimeModule is the module identifier reserved for k6 itself.
const RuntimeModule = "k6"

// Requirement is a version constraint on a module, declared at Source.
type Requirement struct {
	Module     string
	Constraint Constraint
	Source     Location
}

// IsRuntime reports whether the requirement is on k6 itself rather than on an extension.
func (r Requirement) IsRuntime() bool {
	return r.Module == RuntimeModule
}

func (r Requirement) String() string {
	return r.Module + " " + r.Constraint.String()
}

// Requirements is a set of requirements holding at most one Requirement per module.
type Requirements map[string]*Requirement

// Merge folds reqs into a new Requirements set.
func Merge(reqs ...Requirement) (Requirements, error) {
	set := make(Requirements, len(reqs))

	for _, req := range reqs {
		if err := set.Add(req); err != nil {
			return nil, err
		}
	}

	return set, nil
}

// Add merges req into the set. It returns a *ConflictError if req's constraint
// is incompatible with the constraint already in the set for the same module.
// The set is left unchanged on error.
func (reqs Requirements) Add(req Requirement) error {
	req.Module = strings.TrimSpace(req.Module)

	existing, found := reqs[req.Module]
	if !found {
		reqs[req.Module] = &req

		return nil
	}

	merged, err := existing.Constraint.Merge(req.Constraint)
	if err != nil {
		return &ConflictError{Module: req.Module, Existing: *existing, Incoming: req}
	}

	if !merged.Equal(existing.Constraint) {
		existing.Constraint = merged
		existing.Source = req.Source
	}

	return nil
}

// K6 returns the runtime requirement, if any.
func (reqs Requirements) K6() (*Requirement, bool) {
	req, ok := reqs[RuntimeModule]

	return req, ok
}

// Extensions returns the extension requirements sorted by module.
func (reqs Requirements) Extensions() []*Requirement {
	exts := make([]*Requirement, 0, len(reqs))

	for name, req := range reqs {
		if name != RuntimeModule {
			exts = append(exts, req)
		}
	}

	sort.Slice(exts, func(i, j int) bool {
		return exts[i].Module < exts[j].Module
	})

	return exts
}

// String returns one "module constraint" line per requirement, k6 first.
func (reqs Requirements) String() string {
	var buff strings.Builder

	if req, ok := reqs.K6(); ok {
		buff.WriteString(req.String())
		buff.WriteRune('\n')
	}

	for _, req := range reqs.Extensions() {
		buff.WriteString(req.String())
		buff.WriteRune('\n')
	}

	return buff.String()
}

func (reqs Requirements) MarshalJSON() ([]byte, error) {
	dict := make(map[string]string, len(reqs))

	for name, req := range reqs {
		dict[name] = req.Constraint.String()
	}

	var buff bytes.Buffer

	encoder := json.NewEncoder(&buff)

	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(dict); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buff.Bytes(), "\n"), nil
}
