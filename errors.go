package entrypoints

import "fmt"

// BadEntryPoint is returned when a single entry point declaration cannot be
// parsed, either because its target string is malformed, or because its line
// in entry_points.txt is structurally invalid (e.g. it precedes any group
// header).
type BadEntryPoint struct {
	Raw    string // Offending target string, or the whole line for structural errors
	Reason string // Short description of what is wrong, may be empty
	Source string // File the declaration came from, if any
	Line   int    // 1-based line number within Source, if known
	Group  string // Group the declaration was found in, empty if none
	Name   string // Name the entry point was declared under, empty if unknown
}

func (e *BadEntryPoint) Error() string {
	msg := fmt.Sprintf("couldn't parse entry point spec: %q", e.Raw)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Source != "" {
		msg += fmt.Sprintf(" in %s:%d", e.Source, e.Line)
	}
	return msg
}

// NoSuchEntryPoint is returned by lookups of a single entry point when no
// matching entry point exists anywhere on the search path.
type NoSuchEntryPoint struct {
	Group string
	Name  string
}

func (e *NoSuchEntryPoint) Error() string {
	return fmt.Sprintf("no %q entry point found in group %q", e.Name, e.Group)
}
