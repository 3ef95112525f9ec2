package entrypoints

import (
	"strings"

	"github.com/birkland/entrypoints/internal/resolv"
	"github.com/birkland/entrypoints/modules"
)

// Distribution identifies an installed package version.  An empty Version
// means the version is unknown.
type Distribution struct {
	Name    string
	Version string
}

func (d Distribution) String() string {
	if d.Version == "" {
		return d.Name
	}
	return d.Name + " " + d.Version
}

// EntryPoint is a single named reference to an importable object, as
// advertised under some group in a distribution's metadata.
type EntryPoint struct {
	Name       string        // Key the entry point is registered under within its group
	ModuleName string        // Dotted module name, never empty
	ObjectName string        // Dotted attribute path within the module, empty for the module itself
	Extras     []string      // Optional feature qualifiers, nil if none were declared
	Distro     *Distribution // Distribution the entry point was found in, nil if constructed standalone
}

// Importer is the module import mechanism entry points are loaded through.
// modules.Registry is the default implementation.
type Importer interface {
	Import(module string) (interface{}, error)
}

// Resolver finds entry points on a search path.  A nil search path means the
// host's default search path.
type Resolver interface {

	// Single returns the first entry point named name in group, in search path
	// order.  Returns *NoSuchEntryPoint if there is none.
	Single(group, name string, path []string) (EntryPoint, error)

	// GroupAll returns every entry point in group, in search path order,
	// including entries that share a name.
	GroupAll(group string, path []string) ([]EntryPoint, error)

	// GroupNamed returns the entry points in group by name, keeping the first
	// one found in search path order for each name.
	GroupNamed(group string, path []string) (map[string]EntryPoint, error)
}

// FromString parses an entry point from its declaration syntax in
// entry_points.txt, i.e. the part after "name =":
//
//	module[:object][ [extra1,extra2,...]]
//
// Returns *BadEntryPoint if the target string cannot be parsed.
func FromString(target, name string, distro *Distribution) (EntryPoint, error) {
	t, err := resolv.ParseTarget(target)
	if err != nil {
		return EntryPoint{}, &BadEntryPoint{
			Raw:    target,
			Reason: err.Error(),
		}
	}

	return EntryPoint{
		Name:       name,
		ModuleName: t.Module,
		ObjectName: t.Object,
		Extras:     t.Extras,
		Distro:     distro,
	}, nil
}

// Target renders the entry point's target in declaration syntax
func (ep EntryPoint) Target() string {
	return resolv.Target{
		Module: ep.ModuleName,
		Object: ep.ObjectName,
		Extras: ep.Extras,
	}.String()
}

func (ep EntryPoint) String() string {
	s := ep.Name + " = " + ep.Target()
	if ep.Distro != nil {
		s += " (" + ep.Distro.String() + ")"
	}
	return s
}

// Load imports the entry point's module from the default module registry and
// returns the object it names.
func (ep EntryPoint) Load() (interface{}, error) {
	return ep.LoadFrom(modules.Default)
}

// LoadFrom imports the entry point's module using the given importer, then
// walks each dotted segment of the object name as an attribute lookup.  With
// no object name, the module itself is returned.  Import and attribute errors
// are returned as-is.
func (ep EntryPoint) LoadFrom(imp Importer) (interface{}, error) {
	obj, err := imp.Import(ep.ModuleName)
	if err != nil {
		return nil, err
	}

	if ep.ObjectName == "" {
		return obj, nil
	}

	for _, attr := range strings.Split(ep.ObjectName, ".") {
		obj, err = modules.Getattr(obj, attr)
		if err != nil {
			return nil, err
		}
	}

	return obj, nil
}
