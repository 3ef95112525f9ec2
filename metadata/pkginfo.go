package metadata

import (
	"bufio"
	"io"
	"net/textproto"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// PkgInfoFile is the name of the core metadata file in an egg-info directory
const PkgInfoFile = "PKG-INFO"

// PkgInfo holds the identifying fields of a PKG-INFO file
type PkgInfo struct {
	Name    string
	Version string
}

// ParsePkgInfo reads the RFC 822 style header block of a PKG-INFO (or METADATA)
// file.  Headers end at the first blank line; anything after is the
// description body and is not read.
func ParsePkgInfo(r io.Reader) (PkgInfo, error) {
	hdr, err := textproto.NewReader(bufio.NewReader(r)).ReadMIMEHeader()

	// A partial header block is still useful, as long as it identified the
	// distribution.
	info := PkgInfo{
		Name:    strings.TrimSpace(hdr.Get("Name")),
		Version: strings.TrimSpace(hdr.Get("Version")),
	}

	if err != nil && err != io.EOF && info.Name == "" {
		return info, errors.Wrap(err, "could not read PKG-INFO headers")
	}

	return info, nil
}

// ReadPkgInfo reads the PKG-INFO file at the given path
func ReadPkgInfo(path string) (info PkgInfo, err error) {
	file, err := os.Open(path)
	if err != nil {
		return info, errors.Wrapf(err, "could not open %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "error closing file at %s", path)
		}
	}()

	return ParsePkgInfo(file)
}
