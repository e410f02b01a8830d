// Package k6x resolves the k6 build required by a test script.
//
// Scripts declare their requirements with directives in their leading block:
//
//	"use k6 >= 0.50";
//	"use k6 with k6/x/faker >= 0.3";
//
// The requirements of the script and of every local script it imports or re-exports
// are merged into one requirement per module and turned into a build Manifest.
package k6x

import (
	"context"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Options defines the options of a Resolver.
type Options struct {
	// Fs is the file system the scripts are read from. Defaults to the OS file system.
	Fs afero.Fs
	// Imports lists the imports of a script. Defaults to DefaultImportLister.
	Imports ImportLister
	// Concurrency is the number of scripts read concurrently. Defaults to the number of CPUs.
	Concurrency int
	// Extra requirements, merged after the scripts' requirements
	Extra []Requirement
}

// Resolver computes the requirements and build manifest of scripts.
// A Resolver keeps no state between calls.
type Resolver struct {
	walker *Walker
	extra  []Requirement
}

// NewResolver returns a Resolver with the given options.
func NewResolver(opts Options) *Resolver {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	if opts.Imports == nil {
		opts.Imports = DefaultImportLister()
	}

	if opts.Concurrency < 1 {
		opts.Concurrency = runtime.NumCPU()
	}

	return &Resolver{
		walker: NewWalker(opts.Fs, opts.Imports, opts.Concurrency),
		extra:  opts.Extra,
	}
}

// Collect returns the merged requirements of entry, the scripts it depends on and the extra requirements.
// An empty entry collects the extra requirements only.
func (r *Resolver) Collect(ctx context.Context, entry string) (Requirements, error) {
	var units []*SourceUnit

	if entry != "" {
		var err error

		units, err = r.walker.Walk(ctx, entry)
		if err != nil {
			return nil, err
		}
	}

	reqs := make(Requirements)

	for _, unit := range units {
		found, err := unit.Requirements()
		if err != nil {
			return nil, err
		}

		logrus.WithField("path", unit.Path).WithField("requirements", len(found)).Debug("parsed directives")

		for _, req := range found {
			if err := reqs.Add(req); err != nil {
				return nil, err
			}
		}
	}

	for _, req := range r.extra {
		if err := reqs.Add(req); err != nil {
			return nil, err
		}
	}

	warnUndeclared(units, reqs)

	logrus.WithField("script", entry).
		WithField("sources", len(units)).
		WithField("modules", len(reqs)).
		Info("requirements collected")

	return reqs, nil
}

// Resolve returns the build manifest of entry.
func (r *Resolver) Resolve(ctx context.Context, entry string) (*Manifest, error) {
	reqs, err := r.Collect(ctx, entry)
	if err != nil {
		return nil, err
	}

	return NewManifest(reqs), nil
}

// warnUndeclared logs the extensions imported by a script without a matching directive.
func warnUndeclared(units []*SourceUnit, reqs Requirements) {
	for _, unit := range units {
		for _, spec := range undeclaredExtensions(unit, reqs) {
			logrus.WithField("path", unit.Path).
				WithField("module", spec).
				Warn("extension imported without a \"use k6 with\" directive")
		}
	}
}

// undeclaredExtensions returns the extensions imported by unit that have no requirement.
// An extension imported as k6/x/<name> may be required either as k6/x/<name> or as <name>.
func undeclaredExtensions(unit *SourceUnit, reqs Requirements) []string {
	var undeclared []string

	for _, spec := range unit.External {
		if !IsExtension(spec) {
			continue
		}

		if _, found := reqs[spec]; found {
			continue
		}

		if _, found := reqs[strings.TrimPrefix(spec, extensionPrefix)]; found {
			continue
		}

		undeclared = append(undeclared, spec)
	}

	return undeclared
}
