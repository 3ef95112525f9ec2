// Package fspath provides search path sources, and normalization of search
// path entries.
package fspath

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Source produces an ordered search path: the directories (or archives) that
// will be scanned for distribution metadata, earliest first.
type Source interface {
	SearchPath() []string
}

// SourceFunc is a function that can be used to satisfy the Source interface
type SourceFunc func() []string

// SearchPath produces the search path
func (f SourceFunc) SearchPath() []string {
	return f()
}

// Static is a Source that always produces the given entries
func Static(entries ...string) Source {
	return SourceFunc(func() []string {
		return append([]string(nil), entries...)
	})
}

// List splits an OS specific path list (e.g. the value of an environment
// variable) into search path entries, dropping empty ones.
func List(list string) []string {
	var entries []string
	for _, e := range filepath.SplitList(list) {
		if e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// Abs makes every entry absolute and clean.  Relative entries are resolved
// against a single lookup of the working directory.
func Abs(entries []string) ([]string, error) {
	abs := make([]string, 0, len(entries))

	var cwd string
	for _, e := range entries {
		if !filepath.IsAbs(e) {
			if cwd == "" {
				var err error
				cwd, err = os.Getwd()
				if err != nil {
					return nil, errors.Wrapf(err, "could not resolve relative search path entry %s", e)
				}
			}
			e = filepath.Join(cwd, e)
		}
		abs = append(abs, filepath.Clean(e))
	}

	return abs, nil
}
