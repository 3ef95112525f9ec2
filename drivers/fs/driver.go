// Package fs is the filesystem driver for entry point discovery.  It locates
// distribution metadata directories on a search path, and answers entry point
// lookups from the entry_points.txt files within them.
//
// Every lookup re-reads the filesystem from scratch; nothing is cached between
// calls.
package fs

import (
	"log/slog"

	"github.com/birkland/entrypoints"
	"github.com/birkland/entrypoints/fspath"
	"github.com/birkland/entrypoints/modules"
)

var _ entrypoints.Resolver = &Driver{}

// Driver represents the filesystem driver for entry points.  The zero value
// is usable, and behaves like a driver created from an empty Config.
type Driver struct {
	cfg Config
}

// Config encapsulates a filesystem driver config.
//
// Bad entry points are skipped (and logged) by default.  With Strict set, a
// lookup instead fails with the first *entrypoints.BadEntryPoint it
// encounters in the group it was asked about.
//
// When ShadowDistributions is set, a distribution found on the search path
// hides every later distribution of the same name entirely, the way the host
// would only ever import the first of them.  Otherwise, only individual entry
// point names are subject to first-wins precedence, and GroupAll reports the
// entry points of every installed copy.
type Config struct {
	Path                fspath.Source // Default search path, modules.SearchPath() if nil
	Strict              bool          // Fail on bad entry points instead of skipping them
	ShadowDistributions bool          // Earlier distributions hide later ones of the same name
	Logger              *slog.Logger  // slog.Default() if nil
}

// NewDriver initializes a new filesystem entry point driver
func NewDriver(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

// SearchPath is the search path used when a lookup is given a nil path
func (d *Driver) SearchPath() []string {
	if d.cfg.Path != nil {
		return d.cfg.Path.SearchPath()
	}
	return modules.SearchPath()
}

func (d *Driver) searchPath(path []string) ([]string, error) {
	if path == nil {
		path = d.SearchPath()
	}
	return fspath.Abs(path)
}

func (d *Driver) log() *slog.Logger {
	if d.cfg.Logger != nil {
		return d.cfg.Logger
	}
	return slog.Default()
}
