package k6x

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Walker collects the closure of scripts reachable from an entry script
// through local imports and re-exports.
type Walker struct {
	fs          afero.Fs
	lister      ImportLister
	concurrency int
}

// NewWalker returns a Walker reading scripts from afs.
// Scripts of the same depth are loaded with up to concurrency goroutines.
func NewWalker(afs afero.Fs, lister ImportLister, concurrency int) *Walker {
	if lister == nil {
		lister = DefaultImportLister()
	}

	if concurrency < 1 {
		concurrency = 1
	}

	return &Walker{fs: afs, lister: lister, concurrency: concurrency}
}

type edge struct {
	importer  string
	specifier string
	path      string
}

// Walk returns every script reachable from entry, each once, sorted by path.
// A missing local import fails with an *ImportError.
func (w *Walker) Walk(ctx context.Context, entry string) ([]*SourceUnit, error) {
	entry = path.Clean(filepath.ToSlash(entry))

	visited := map[string]struct{}{entry: {}}
	frontier := []edge{{path: entry}}

	var units []*SourceUnit

	for len(frontier) != 0 {
		loaded, err := w.load(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []edge

		for _, unit := range loaded {
			units = append(units, unit)

			for _, dep := range unit.Dependencies() {
				if _, done := visited[dep]; done {
					continue
				}

				visited[dep] = struct{}{}
				next = append(next, edge{importer: unit.Path, specifier: unit.specifiers[dep], path: dep})
			}
		}

		sort.Slice(next, func(i, j int) bool { return next[i].path < next[j].path })

		frontier = next
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })

	return units, nil
}

// load reads the scripts of a frontier concurrently.
// When several scripts fail, the error of the first one in frontier order is returned.
func (w *Walker) load(ctx context.Context, frontier []edge) ([]*SourceUnit, error) {
	units := make([]*SourceUnit, len(frontier))
	errs := make([]error, len(frontier))

	var group errgroup.Group

	group.SetLimit(w.concurrency)

	for idx := range frontier {
		idx := idx

		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[idx] = err

				return nil
			}

			units[idx], errs[idx] = w.loadUnit(frontier[idx])

			return nil
		})
	}

	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return units, nil
}

func (w *Walker) loadUnit(from edge) (*SourceUnit, error) {
	logrus.WithField("path", from.path).Debug("loading script")

	src, err := afero.ReadFile(w.fs, from.path)
	if err != nil {
		if from.importer != "" && errors.Is(err, fs.ErrNotExist) {
			return nil, &ImportError{
				Importer:  from.importer,
				Specifier: from.specifier,
				Path:      from.path,
				Cause:     err,
			}
		}

		return nil, pathError(from.path, err)
	}

	imports, err := w.lister.ListImports(from.path, src)
	if err != nil {
		return nil, err
	}

	unit := &SourceUnit{
		Path:       from.path,
		Source:     src,
		Directives: ScanDirectives(from.path, src),
	}

	unit.Imports = unit.classify(imports.Imports)
	unit.Reexports = unit.classify(imports.Reexports)

	if len(unit.External) != 0 {
		logrus.WithField("path", from.path).WithField("modules", unit.External).Debug("external imports")
	}

	return unit, nil
}
