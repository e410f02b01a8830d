// Package scriptfs implements an in memory file system of scripts for tests
package scriptfs

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// ScriptFs is an in memory file system that counts the times each file is opened.
type ScriptFs struct {
	afero.Fs

	mu    sync.Mutex
	opens map[string]int
}

// New creates an empty ScriptFs
func New() *ScriptFs {
	return &ScriptFs{
		Fs:    afero.NewMemMapFs(),
		opens: map[string]int{},
	}
}

// FromMap creates a ScriptFs with a script for each entry of scripts (path -> source).
func FromMap(scripts map[string]string) (*ScriptFs, error) {
	sfs := New()

	for name, src := range scripts {
		if err := sfs.AddScript(name, src); err != nil {
			return nil, err
		}
	}

	return sfs, nil
}

// Open opens a file, counting the call
func (s *ScriptFs) Open(name string) (afero.File, error) {
	s.mu.Lock()
	s.opens[path.Clean(filepath.ToSlash(name))]++
	s.mu.Unlock()

	return s.Fs.Open(name)
}

// Opens returns the number of times name was opened
func (s *ScriptFs) Opens(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.opens[path.Clean(name)]
}

// AddScript adds a script, creating its parent directories
func (s *ScriptFs) AddScript(name string, src string) error {
	if err := s.Fs.MkdirAll(path.Dir(name), 0o755); err != nil {
		return fmt.Errorf("creating script directory: %w", err)
	}

	if err := afero.WriteFile(s.Fs, name, []byte(src), 0o644); err != nil {
		return fmt.Errorf("creating script: %w", err)
	}

	return nil
}

// AddDir copies the files of the directory sourcePath (in the OS file system) under dir
func (s *ScriptFs) AddDir(dir string, sourcePath string) error {
	return filepath.WalkDir(sourcePath, func(file string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(sourcePath, file)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(file) //nolint:forbidigo
		if err != nil {
			return fmt.Errorf("reading script source: %w", err)
		}

		return s.AddScript(path.Join(dir, filepath.ToSlash(rel)), string(content))
	})
}
