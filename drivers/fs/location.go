package fs

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/birkland/entrypoints"
	"github.com/pkg/errors"
)

// MetadataDir is a distribution metadata directory found on the search path.
// The directory is either on disk, or inside a zip archive.
type MetadataDir struct {
	Dist    entrypoints.Distribution
	Kind    entrypoints.Convention
	Entry   string // Search path entry it was found in
	Path    string // Directory on disk, or its slash separated path within Archive
	Archive string // Zip archive holding the directory, empty if on disk
}

// Location describes where the metadata directory is, for humans
func (m MetadataDir) Location() string {
	if m.Archive == "" {
		return m.Path
	}
	return filepath.Join(m.Archive, filepath.FromSlash(m.Path))
}

// Open opens a file within the metadata directory.  If the file does not
// exist, the cause of the returned error satisfies os.IsNotExist.
func (m MetadataDir) Open(name string) (io.ReadCloser, error) {
	if m.Archive == "" {
		f, err := os.Open(filepath.Join(m.Path, name))
		if err != nil {
			return nil, errors.Wrapf(err, "could not open %s in %s", name, m.Path)
		}
		return f, nil
	}

	z, err := zip.OpenReader(m.Archive)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open archive %s", m.Archive)
	}

	member := path.Join(m.Path, name)
	for _, f := range z.File {
		if f.Name != member {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			z.Close()
			return nil, errors.Wrapf(err, "could not open %s in %s", member, m.Archive)
		}
		return &archived{ReadCloser: rc, archive: z}, nil
	}

	z.Close()
	return nil, errors.Wrapf(&os.PathError{Op: "open", Path: member, Err: os.ErrNotExist},
		"could not open %s in %s", name, m.Archive)
}

// archived is a file within a zip archive.  Closing it closes the archive too.
type archived struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (a *archived) Close() error {
	err := a.ReadCloser.Close()
	if e := a.archive.Close(); err == nil {
		err = e
	}
	return err
}

// Split a "name-version" directory base name at its first dash
func splitNameVersion(base string) (name, version string) {
	if i := strings.Index(base, "-"); i >= 0 {
		return base[:i], base[i+1:]
	}
	return base, ""
}

// Eggs are named name-version[-pyX.Y[-platform]].egg
func eggDistribution(entry string) entrypoints.Distribution {
	base := strings.TrimSuffix(filepath.Base(entry), entrypoints.EggSuffix)
	parts := strings.Split(base, "-")

	dist := entrypoints.Distribution{Name: parts[0]}
	if len(parts) > 1 {
		dist.Version = parts[1]
	}
	return dist
}
