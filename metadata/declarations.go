package metadata

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/birkland/entrypoints"
	"github.com/pkg/errors"
)

// EntryPointsFile is the name of the declaration file in a metadata directory
const EntryPointsFile = "entry_points.txt"

const maxLine = 1024 * 1024

// Groups maps group names to the entry points declared in them, by name
type Groups map[string]map[string]entrypoints.EntryPoint

// Declarations are the parsed contents of a single entry_points.txt file
type Declarations struct {
	Source string                       // Where the declarations were read from
	Groups Groups                       // Every entry point that parsed successfully
	Bad    []*entrypoints.BadEntryPoint // Every declaration that did not, in file order
}

// Group returns the entry points declared in the named group, ordered by name
func (d *Declarations) Group(name string) []entrypoints.EntryPoint {
	group := d.Groups[name]

	names := make([]string, 0, len(group))
	for n := range group {
		names = append(names, n)
	}
	sort.Strings(names)

	eps := make([]entrypoints.EntryPoint, 0, len(names))
	for _, n := range names {
		eps = append(eps, group[n])
	}
	return eps
}

// Lookup finds a single entry point by group and name
func (d *Declarations) Lookup(group, name string) (entrypoints.EntryPoint, bool) {
	ep, ok := d.Groups[group][name]
	return ep, ok
}

// BadIn returns the bad declarations that may have belonged to the given
// group: those found in it, and structural errors that could not be
// attributed to any group.
func (d *Declarations) BadIn(group string) []*entrypoints.BadEntryPoint {
	var bad []*entrypoints.BadEntryPoint
	for _, b := range d.Bad {
		if b.Group == group || b.Group == "" {
			bad = append(bad, b)
		}
	}
	return bad
}

// pending is a declaration whose value may still be continued
type pending struct {
	name  string
	value string
	group string
	line  int
}

type parser struct {
	decls   *Declarations
	distro  *entrypoints.Distribution
	seen    map[string]map[string]bool
	group   string
	inGroup bool
	current *pending
	absorb  bool // Swallow continuation lines of a rejected line
	blanks  int  // Empty lines since the last line with content
}

// ReadFile parses the declaration file at the given path.  The file is closed
// before returning.
func ReadFile(path string, distro *entrypoints.Distribution) (decls *Declarations, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open entry points file at %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = errors.Wrapf(e, "error closing file at %s", path)
		}
	}()

	return Parse(file, path, distro)
}

// Parse parses entry point declarations from a byte stream.  Declared entry
// points are attributed to the given distribution, which may be nil.  Source
// names the stream in diagnostics.
//
// Malformed declarations are reported in Declarations.Bad rather than as an
// error; the returned error is reserved for failures reading r.
func Parse(r io.Reader, source string, distro *entrypoints.Distribution) (*Declarations, error) {
	if distro != nil {
		d := *distro
		distro = &d
	}

	p := &parser{
		decls: &Declarations{
			Source: source,
			Groups: make(Groups),
		},
		distro: distro,
		seen:   make(map[string]map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		p.line(line, lineNo)
	}
	p.flush()

	if err := scanner.Err(); err != nil {
		return p.decls, errors.Wrapf(err, "error reading entry points from %s", source)
	}

	return p.decls, nil
}

func (p *parser) line(line string, lineNo int) {
	trimmed := strings.TrimSpace(line)

	// Empty lines are kept within a value only if an indented line follows
	if trimmed == "" {
		p.blanks++
		return
	}
	if comment(trimmed) {
		return
	}

	// Indented lines continue the previous value
	if indented(line) && (p.current != nil || p.absorb) {
		if p.current != nil {
			p.current.value += strings.Repeat("\n", p.blanks+1) + trimmed
		}
		p.blanks = 0
		return
	}

	p.flush()
	p.absorb = false
	p.blanks = 0

	if strings.HasPrefix(trimmed, "[") {
		p.header(trimmed, lineNo)
		return
	}

	idx := strings.Index(trimmed, "=")
	if idx < 0 {
		p.reject(trimmed, "", lineNo, "expected a 'name = value' line")
		return
	}

	name := strings.TrimSpace(trimmed[:idx])
	value := strings.TrimSpace(trimmed[idx+1:])

	if name == "" {
		p.reject(trimmed, "", lineNo, "empty entry point name")
		return
	}

	if !p.inGroup {
		p.reject(trimmed, name, lineNo, "entry point declared outside of any valid group")
		return
	}

	p.current = &pending{
		name:  name,
		value: value,
		group: p.group,
		line:  lineNo,
	}
}

func (p *parser) header(trimmed string, lineNo int) {
	p.inGroup = false
	p.group = ""

	end := strings.LastIndex(trimmed, "]")
	if end < 0 {
		p.reject(trimmed, "", lineNo, "unclosed group header")
		return
	}

	if rest := strings.TrimSpace(trimmed[end+1:]); rest != "" && !comment(rest) {
		p.reject(trimmed, "", lineNo, "unexpected text after group header")
		return
	}

	name := strings.TrimSpace(trimmed[1:end])
	if name == "" || strings.ContainsAny(name, "[]") {
		p.reject(trimmed, "", lineNo, "invalid group name")
		return
	}

	p.group = name
	p.inGroup = true
	if _, ok := p.decls.Groups[name]; !ok {
		p.decls.Groups[name] = make(map[string]entrypoints.EntryPoint)
		p.seen[name] = make(map[string]bool)
	}
}

// Complete the pending declaration, if any
func (p *parser) flush() {
	c := p.current
	if c == nil {
		return
	}
	p.current = nil

	if p.seen[c.group][c.name] {
		p.bad(&entrypoints.BadEntryPoint{
			Raw:    c.value,
			Reason: "duplicate entry point " + c.name,
			Source: p.decls.Source,
			Line:   c.line,
			Group:  c.group,
			Name:   c.name,
		})
		return
	}
	p.seen[c.group][c.name] = true

	ep, err := entrypoints.FromString(c.value, c.name, p.distro)
	if err != nil {
		bad, ok := err.(*entrypoints.BadEntryPoint)
		if !ok {
			bad = &entrypoints.BadEntryPoint{Raw: c.value, Reason: err.Error()}
		}
		bad.Source = p.decls.Source
		bad.Line = c.line
		bad.Group = c.group
		bad.Name = c.name
		p.bad(bad)
		return
	}

	p.decls.Groups[c.group][c.name] = ep
}

// Reject a structurally invalid line, along with any continuation lines
func (p *parser) reject(raw, name string, lineNo int, reason string) {
	p.absorb = true
	p.bad(&entrypoints.BadEntryPoint{
		Raw:    raw,
		Reason: reason,
		Source: p.decls.Source,
		Line:   lineNo,
		Group:  p.group,
		Name:   name,
	})
}

func (p *parser) bad(b *entrypoints.BadEntryPoint) {
	p.decls.Bad = append(p.decls.Bad, b)
}

func comment(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";")
}

func indented(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}
