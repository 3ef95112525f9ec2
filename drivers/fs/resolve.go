package fs

import (
	"os"
	"path/filepath"

	"github.com/birkland/entrypoints"
	"github.com/birkland/entrypoints/metadata"
	"github.com/pkg/errors"
)

// visitor is invoked with the declarations of each distribution in turn, and
// returns true to stop.
type visitor func(md MetadataDir, decls *metadata.Declarations) (stop bool, err error)

// Single returns the first entry point registered as name in group, in search
// path order.  Returns *entrypoints.NoSuchEntryPoint if there is none.
func (d *Driver) Single(group, name string, path []string) (entrypoints.EntryPoint, error) {
	var found *entrypoints.EntryPoint

	err := d.declarations(path, func(md MetadataDir, decls *metadata.Declarations) (bool, error) {
		var bad []*entrypoints.BadEntryPoint
		for _, b := range decls.BadIn(group) {
			if b.Name == name || b.Name == "" {
				bad = append(bad, b)
			}
		}
		if err := d.badEntries(bad); err != nil {
			return true, err
		}

		if ep, ok := decls.Lookup(group, name); ok {
			found = &ep
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return entrypoints.EntryPoint{}, err
	}

	if found == nil {
		return entrypoints.EntryPoint{}, &entrypoints.NoSuchEntryPoint{Group: group, Name: name}
	}

	return *found, nil
}

// GroupAll returns every entry point in group, in search path order.  Entry
// points sharing a name are all included.
func (d *Driver) GroupAll(group string, path []string) ([]entrypoints.EntryPoint, error) {
	var all []entrypoints.EntryPoint

	err := d.declarations(path, func(md MetadataDir, decls *metadata.Declarations) (bool, error) {
		if err := d.badEntries(decls.BadIn(group)); err != nil {
			return true, err
		}

		all = append(all, decls.Group(group)...)
		return false, nil
	})

	return all, err
}

// GroupNamed returns the entry points in group keyed by name.  For each name,
// the entry point found earliest in search path order wins.
func (d *Driver) GroupNamed(group string, path []string) (map[string]entrypoints.EntryPoint, error) {
	all, err := d.GroupAll(group, path)
	if err != nil {
		return nil, err
	}

	named := make(map[string]entrypoints.EntryPoint, len(all))
	for _, ep := range all {
		if _, seen := named[ep.Name]; !seen {
			named[ep.Name] = ep
		}
	}

	return named, nil
}

// Distributions returns every metadata directory on the search path, in
// order, whether or not it declares any entry points.  Shadowed
// distributions are included.
func (d *Driver) Distributions(path []string) ([]MetadataDir, error) {
	var dirs []MetadataDir
	err := d.Walk(path, func(md MetadataDir) error {
		dirs = append(dirs, md)
		return nil
	})
	return dirs, err
}

// Visit the declarations of each distribution on the search path
func (d *Driver) declarations(path []string, f visitor) error {
	seen := make(map[string]bool)

	s := d.Scan(path)
	for s.Next() {
		md := s.Dir()

		if d.cfg.ShadowDistributions {
			if seen[md.Dist.Name] {
				d.log().Debug("skipping shadowed distribution", "distribution", md.Dist, "path", md.Location())
				continue
			}
			seen[md.Dist.Name] = true
		}

		decls := d.readDeclarations(md)
		if decls == nil {
			continue
		}

		stop, err := f(md, decls)
		if err != nil || stop {
			return err
		}
	}

	return errors.Wrapf(s.Err(), "could not scan search path")
}

// Read a distribution's entry_points.txt.  A distribution that has none, or
// whose file cannot be read, contributes nothing.
func (d *Driver) readDeclarations(md MetadataDir) *metadata.Declarations {
	rc, err := md.Open(metadata.EntryPointsFile)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			d.log().Warn("skipping unreadable distribution", "distribution", md.Dist, "path", md.Location(), "error", err)
		}
		return nil
	}
	defer rc.Close()

	source := filepath.Join(md.Location(), metadata.EntryPointsFile)
	decls, err := metadata.Parse(rc, source, &md.Dist)
	if err != nil {
		d.log().Warn("skipping unreadable distribution", "distribution", md.Dist, "path", md.Location(), "error", err)
		return nil
	}

	return decls
}

// Apply the bad entry point policy: in strict mode the first bad entry is an
// error, otherwise they are logged and skipped.
func (d *Driver) badEntries(bad []*entrypoints.BadEntryPoint) error {
	if len(bad) == 0 {
		return nil
	}

	if d.cfg.Strict {
		return bad[0]
	}

	for _, b := range bad {
		d.log().Warn("skipping bad entry point", "group", b.Group, "name", b.Name, "source", b.Source, "line", b.Line, "error", b)
	}

	return nil
}
