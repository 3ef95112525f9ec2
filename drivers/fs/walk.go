package fs

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/birkland/entrypoints"
	"github.com/birkland/entrypoints/metadata"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// Scanner serially produces the metadata directories on a search path: in
// search path order, then in lexical order within each search path entry.
// Search path entries are only listed once the scanner reaches them, and
// nothing is retained between scans: every call to Scan starts afresh.
//
// Entries that do not exist, or cannot be read, are skipped without stopping
// the scan.
type Scanner struct {
	d       *Driver
	entries []string
	queue   []MetadataDir
	current MetadataDir
	scratch []byte
	err     error
}

// Scan begins a scan of the given search path, or the driver's default
// search path if nil.
func (d *Driver) Scan(path []string) *Scanner {
	entries, err := d.searchPath(path)
	return &Scanner{
		d:       d,
		entries: entries,
		err:     err,
	}
}

// Next advances to the next metadata directory.  It returns false once the
// search path is exhausted.
func (s *Scanner) Next() bool {
	for len(s.queue) == 0 {
		if s.err != nil || len(s.entries) == 0 {
			return false
		}

		entry := s.entries[0]
		s.entries = s.entries[1:]
		s.queue = s.locate(entry)
	}

	s.current = s.queue[0]
	s.queue = s.queue[1:]
	return true
}

// Dir returns the current metadata directory
func (s *Scanner) Dir() MetadataDir {
	return s.current
}

// Err returns the error, if any, that prevented the scan from starting
func (s *Scanner) Err() error {
	return s.err
}

// Walk invokes the callback with each metadata directory on the search path,
// in order.  It stops at the first error returned by the callback.
func (d *Driver) Walk(path []string, f func(MetadataDir) error) error {
	s := d.Scan(path)
	for s.Next() {
		if err := f(s.Dir()); err != nil {
			return err
		}
	}
	return s.Err()
}

// Find the metadata directories in a single search path entry
func (s *Scanner) locate(entry string) []MetadataDir {
	info, err := os.Stat(entry)
	if err != nil {
		if !os.IsNotExist(err) {
			s.d.log().Warn("skipping unreadable search path entry", "path", entry, "error", err)
		}
		return nil
	}

	switch {
	case entrypoints.ConventionOf(entry) == entrypoints.Egg:
		return s.locateEgg(entry, info)
	case info.IsDir():
		return s.locateDir(entry)
	case info.Mode().IsRegular():
		return s.locateArchive(entry)
	}

	return nil
}

// An .egg entry is its own distribution, with metadata in EGG-INFO
func (s *Scanner) locateEgg(entry string, info os.FileInfo) []MetadataDir {
	md := MetadataDir{
		Dist:  eggDistribution(entry),
		Kind:  entrypoints.Egg,
		Entry: entry,
	}

	if info.IsDir() {
		md.Path = filepath.Join(entry, entrypoints.EggInfoDir)
		if !isDir(md.Path) {
			s.d.log().Debug("egg has no metadata directory", "path", entry)
			return nil
		}
		return []MetadataDir{md}
	}

	z, err := zip.OpenReader(entry)
	if err != nil {
		s.d.log().Debug("skipping egg that is neither a directory nor an archive", "path", entry, "error", err)
		return nil
	}
	defer z.Close()

	md.Archive = entry
	md.Path = entrypoints.EggInfoDir
	for _, f := range z.File {
		if strings.HasPrefix(f.Name, entrypoints.EggInfoDir+"/") {
			return []MetadataDir{md}
		}
	}

	s.d.log().Debug("egg has no metadata directory", "path", entry)
	return nil
}

// Metadata directories are immediate children of a search path directory
func (s *Scanner) locateDir(dir string) []MetadataDir {
	dirents, err := godirwalk.ReadDirents(dir, s.buffer())
	if err != nil {
		s.d.log().Warn("skipping unreadable search path entry", "path", dir, "error", err)
		return nil
	}
	sort.Sort(dirents)

	var found []MetadataDir
	for _, de := range dirents {
		kind := entrypoints.ConventionOf(de.Name())
		if kind != entrypoints.DistInfo && kind != entrypoints.EggInfo {
			continue
		}

		p := filepath.Join(dir, de.Name())
		if !de.IsDir() && !(de.IsSymlink() && isDir(p)) {
			continue
		}

		md, err := s.metadataDir(MetadataDir{Kind: kind, Entry: dir, Path: p}, de.Name())
		if err != nil {
			s.d.log().Warn("skipping malformed metadata directory", "path", p, "error", err)
			continue
		}
		found = append(found, md)
	}

	return found
}

// A zip archive on the search path holds metadata directories at its top level
func (s *Scanner) locateArchive(archive string) []MetadataDir {
	z, err := zip.OpenReader(archive)
	if err != nil {
		s.d.log().Debug("skipping search path file that is not an archive", "path", archive, "error", err)
		return nil
	}

	names := make(map[string]bool)
	for _, f := range z.File {
		i := strings.Index(f.Name, "/")
		if i <= 0 {
			continue
		}
		names[f.Name[:i]] = true
	}
	z.Close()

	dirs := make([]string, 0, len(names))
	for name := range names {
		dirs = append(dirs, name)
	}
	sort.Strings(dirs)

	var found []MetadataDir
	for _, name := range dirs {
		kind := entrypoints.ConventionOf(name)
		if kind != entrypoints.DistInfo && kind != entrypoints.EggInfo {
			continue
		}

		md, err := s.metadataDir(MetadataDir{Kind: kind, Entry: archive, Path: name, Archive: archive}, name)
		if err != nil {
			s.d.log().Warn("skipping malformed metadata directory", "path", archive, "dir", name, "error", err)
			continue
		}
		found = append(found, md)
	}

	return found
}

// Derive the distribution of a dist-info or egg-info directory from its name,
// falling back to PKG-INFO for egg-info directories that carry no version
func (s *Scanner) metadataDir(md MetadataDir, base string) (MetadataDir, error) {
	name, version := splitNameVersion(strings.TrimSuffix(base, md.Kind.Suffix()))
	if name == "" {
		return md, errors.Errorf("no distribution name in %s", base)
	}

	if version == "" && md.Kind == entrypoints.EggInfo {
		version = s.pkgInfoVersion(md)
	}

	if version == "" {
		s.d.log().Debug("unknown distribution version", "path", md.Location())
	}

	md.Dist = entrypoints.Distribution{Name: name, Version: version}
	return md, nil
}

func (s *Scanner) pkgInfoVersion(md MetadataDir) string {
	rc, err := md.Open(metadata.PkgInfoFile)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			s.d.log().Debug("could not open PKG-INFO", "path", md.Location(), "error", err)
		}
		return ""
	}
	defer rc.Close()

	info, err := metadata.ParsePkgInfo(rc)
	if err != nil {
		s.d.log().Debug("could not read PKG-INFO", "path", md.Location(), "error", err)
		return ""
	}

	return info.Version
}

func (s *Scanner) buffer() []byte {
	if s.scratch == nil {
		s.scratch = make([]byte, godirwalk.MinimumScratchBufferSize)
	}
	return s.scratch
}

// isDir follows symlinks
func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
