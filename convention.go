package entrypoints

import "strings"

// Convention names a kind of on-disk metadata location
type Convention int

// Metadata conventions, in the order they were introduced
const (
	Unknown Convention = iota
	Egg
	EggInfo
	DistInfo
)

// Directory name suffixes for each convention
const (
	EggSuffix      = ".egg"
	EggInfoSuffix  = ".egg-info"
	DistInfoSuffix = ".dist-info"
)

// EggInfoDir is the metadata directory inside an .egg path entry
const EggInfoDir = "EGG-INFO"

func (c Convention) String() string {
	switch c {
	case Egg:
		return "egg"
	case EggInfo:
		return "egg-info"
	case DistInfo:
		return "dist-info"
	default:
		return "unknown"
	}
}

// Suffix returns the directory (or archive) name suffix of the convention
func (c Convention) Suffix() string {
	switch c {
	case Egg:
		return EggSuffix
	case EggInfo:
		return EggInfoSuffix
	case DistInfo:
		return DistInfoSuffix
	default:
		return ""
	}
}

// ParseConvention parses a convention name as produced by String.  Anything
// unrecognized is Unknown.
func ParseConvention(name string) Convention {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "egg":
		return Egg
	case "egg-info":
		return EggInfo
	case "dist-info":
		return DistInfo
	default:
		return Unknown
	}
}

// ConventionOf determines the metadata convention of a file or directory
// name, judging by its suffix alone.
func ConventionOf(name string) Convention {
	name = strings.TrimRight(name, `/\`)
	for _, c := range []Convention{DistInfo, EggInfo, Egg} {
		if strings.HasSuffix(name, c.Suffix()) && len(name) > len(c.Suffix()) {
			return c
		}
	}
	return Unknown
}
